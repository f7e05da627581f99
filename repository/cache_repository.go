package repository

// CacheRepository stores calculation results as strings under a key.
// A miss or a backend failure both report ok == false.
type CacheRepository interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}
