package contracts

// Storage is a string key/value store scoped to either one browser session
// or the whole site. GetItem returns errs.ErrNotFound for a missing key.
type Storage interface {
	GetItem(key string) (string, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}
