package store

import (
	"fmt"
)

// Copy copies every group, array and attribute below src into dst,
// including the attributes of src itself. Chunks are copied in their
// encoded form, so codecs and chunking are preserved.
func Copy(src, dst *Group) error {
	if err := src.checkOpen(); err != nil {
		return err
	}
	if err := dst.checkWritable(); err != nil {
		return err
	}

	srcPrefix := keyPrefix(src.path)
	dstPrefix := keyPrefix(dst.path)
	if err := copyPrefix(src.file.store, srcPrefix, dst.file.store, dstPrefix); err != nil {
		return fmt.Errorf("copying %s to %s: %w", src.path, dst.path, err)
	}

	dst.file.log.Debug().Str("src", src.path).Str("dst", dst.path).Msg("group copied")
	return nil
}
