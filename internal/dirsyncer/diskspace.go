package dirsyncer

import (
	"errors"
	"fmt"
	"io/fs"

	"bisync/internal/log"
	"bisync/internal/model"
)

//diskCalculator sums the on-disk size of entries, recursively for directories. Nothing is cached.
type diskCalculator struct {
	log log.Logger
}

func newDiskCalculator(logger log.Logger) *diskCalculator {
	return &diskCalculator{log: logger}
}

//totalSize is always called on the root that holds the content, to size what the other root has to receive.
//Hidden entries are counted too. A path that does not exist (anymore) counts as zero.
func (c *diskCalculator) totalSize(root model.Root, relPaths []string) (int64, error) {
	var total int64
	for _, rel := range relPaths {
		info, err := root.FS.Stat(rel)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				c.log.Warn("entry to measure does not exist", log.String("path", absPath(root, rel)))
				continue
			}
			return 0, fmt.Errorf("cannot stat %q: %w", absPath(root, rel), err)
		}
		total += info.Size()
		if info.IsDir() {
			size, err := c.dirContentSize(root, rel)
			if err != nil {
				return 0, err
			}
			total += size
		}
	}
	return total, nil
}

//dirContentSize does not follow symlinks: a link counts with its own size.
func (c *diskCalculator) dirContentSize(root model.Root, rel string) (int64, error) {
	list, err := root.FS.ReadDir(rel)
	if err != nil {
		return 0, fmt.Errorf("cannot read directory %q: %w", absPath(root, rel), err)
	}
	var total int64
	for _, fi := range list {
		total += fi.Size()
		if fi.IsDir() {
			size, err := c.dirContentSize(root, root.FS.Join(rel, fi.Name()))
			if err != nil {
				return 0, err
			}
			total += size
		}
	}
	return total, nil
}

const (
	kb = 1024.0
	mb = 1024 * kb
	gb = 1024 * mb
)

//formatSpace renders a byte count for humans: KB below 10 MB, MB below 1 GB, GB otherwise.
func formatSpace(space int64) string {
	s := float64(space)
	switch {
	case s < 10*mb:
		return fmt.Sprintf("%.2f KB", s/kb)
	case s < gb:
		return fmt.Sprintf("%.2f MB", s/mb)
	default:
		return fmt.Sprintf("%.2f GB", s/gb)
	}
}
