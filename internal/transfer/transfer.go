// Package transfer is the boundary to the remote drop locations the
// exported files are delivered to and import files fetched from. The
// transport itself is an external collaborator; this package defines
// the narrow client surface the engine needs plus a filesystem
// implementation for local and NFS-mounted drop directories.
package transfer

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/prontoxi/pricesync/pkg/errors"
	"github.com/prontoxi/pricesync/pkg/logging"
)

// Client moves single files between the local filesystem and a remote
// location. Remote paths are interpreted by the implementation.
type Client interface {
	Upload(ctx context.Context, localPath, remotePath string) error
	Download(ctx context.Context, remotePath, localPath string) error
}

// FSClient is a Client over a mounted drop directory. Remote paths are
// resolved relative to the root.
type FSClient struct {
	root string
}

var _ Client = (*FSClient)(nil)

// NewFSClient creates a filesystem client rooted at the drop
// directory.
func NewFSClient(root string) *FSClient {
	return &FSClient{root: root}
}

// Upload copies a local file into the drop directory, creating parent
// directories as needed.
func (c *FSClient) Upload(ctx context.Context, localPath, remotePath string) error {
	dst := filepath.Join(c.root, remotePath)
	if err := copyFile(ctx, localPath, dst); err != nil {
		return err
	}
	logging.Ctx(ctx).Debug().Str("local", localPath).Str("remote", dst).Msg("File uploaded")
	return nil
}

// Download copies a file from the drop directory to a local path.
func (c *FSClient) Download(ctx context.Context, remotePath, localPath string) error {
	src := filepath.Join(c.root, remotePath)
	if err := copyFile(ctx, src, localPath); err != nil {
		return err
	}
	logging.Ctx(ctx).Debug().Str("remote", src).Str("local", localPath).Msg("File downloaded")
	return nil
}

func copyFile(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return errors.WrapIO("read", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.WrapIO("create", filepath.Dir(dst), err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return errors.WrapIO("create", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.WrapIO("write", dst, err)
	}
	if err := out.Close(); err != nil {
		return errors.WrapIO("write", dst, err)
	}
	return nil
}
