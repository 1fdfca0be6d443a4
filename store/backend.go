package store

// ChunkedStore is a flat key/value backend. Keys are slash-separated paths
// such as "rkns/signals/fg_1.0/signal/0.0".
type ChunkedStore interface {
	// Get returns the value at key, or ErrKeyNotFound.
	Get(key string) ([]byte, error)

	// Set stores value at key, replacing any previous value.
	Set(key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// List returns every key starting with prefix, sorted.
	List(prefix string) ([]string, error)

	// Close releases backend resources.
	Close() error
}

// deletePrefix removes every key under prefix.
func deletePrefix(cs ChunkedStore, prefix string) error {
	keys, err := cs.List(prefix)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := cs.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

// copyPrefix copies every key under srcPrefix in src to dstPrefix in dst.
func copyPrefix(src ChunkedStore, srcPrefix string, dst ChunkedStore, dstPrefix string) error {
	keys, err := src.List(srcPrefix)
	if err != nil {
		return err
	}
	for _, k := range keys {
		v, err := src.Get(k)
		if err != nil {
			return err
		}
		if err := dst.Set(dstPrefix+k[len(srcPrefix):], v); err != nil {
			return err
		}
	}
	return nil
}
