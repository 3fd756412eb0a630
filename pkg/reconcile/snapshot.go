package reconcile

import (
	"os"
	"path/filepath"

	"github.com/edgewatch/ipsync/pkg/errors"
	"github.com/edgewatch/ipsync/pkg/records"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644
)

// Snapshot copies every category file from src into dst, replacing any
// previous snapshot. The publish loop takes one before each sync attempt
// so the merge engine keeps a third input even if the sync rewrites the
// working tree underneath it.
func Snapshot(src, dst string) error {
	if err := os.RemoveAll(dst); err != nil {
		return errors.WrapIO("delete", dst, err)
	}
	if err := os.MkdirAll(dst, dirPermissions); err != nil {
		return errors.WrapIO("create", dst, err)
	}

	names, err := records.ListFiles(src)
	if err != nil {
		return err
	}
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(src, name))
		if err != nil {
			return errors.WrapIO("read", filepath.Join(src, name), err)
		}
		if err := os.WriteFile(filepath.Join(dst, name), content, filePermissions); err != nil {
			return errors.WrapIO("write", filepath.Join(dst, name), err)
		}
	}
	return nil
}
