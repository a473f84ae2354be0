package airdrive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"
)

// Drive is a named drive inside a blob store. Files live at flat keys, and
// folders are emulated with marker objects (see SentinelName).
//
// A Drive holds no mutable state besides its Store, so it is as safe for
// concurrent use as the Store is.
type Drive struct {
	store     Store
	logger    *slog.Logger
	client    *http.Client
	name      string
	localDir  string
	chunkSize int
}

// New returns a Drive backed by an already-open store. No existence check is
// made; use Create or Login for that.
func New(name string, store Store, opts ...Option) *Drive {
	return newDrive(name, store, newConfig(opts))
}

func newDrive(name string, store Store, cfg config) *Drive {
	return &Drive{
		store:     store,
		logger:    cfg.logger,
		client:    cfg.client,
		name:      name,
		localDir:  cfg.localDir,
		chunkSize: cfg.chunkSize,
	}
}

// Create opens the drive named driveName, creating it if it doesn't exist yet.
//
// A drive that already holds files is simply opened, as with Login. Any
// failure to reach the store is reported as ErrUnableToCreate, with the cause
// attached.
func Create(ctx context.Context, opener Opener, credential, driveName string, opts ...Option) (*Drive, error) {
	if err := checkOpenArgs("create", opener, driveName); err != nil {
		return nil, err
	}

	cfg := newConfig(opts)

	store, err := opener.Open(ctx, credential, driveName)
	if err != nil {
		return nil, &Error{Kind: ErrUnableToCreate, Op: "create", Path: driveName, Err: err}
	}

	keys, err := store.List(ctx)
	if err != nil {
		_ = store.Close()

		return nil, &Error{Kind: ErrUnableToCreate, Op: "create", Path: driveName, Err: err}
	}

	// TODO: a non-empty drive may be a name collision rather than a re-run;
	// revisit once it's decided whether Create should fail here instead.
	if len(keys) > 0 {
		cfg.logger.Debug("drive already exists, logging in", slog.String("drive", driveName))
		cfg.logger.Info("logged in", slog.String("drive", driveName))

		return newDrive(driveName, store, cfg), nil
	}

	err = store.Put(ctx, SentinelName, []byte(sentinelContent))
	if err != nil {
		_ = store.Close()

		return nil, &Error{Kind: ErrUnableToCreate, Op: "create", Path: driveName, Err: err}
	}

	cfg.logger.Info("drive created", slog.String("drive", driveName))

	return newDrive(driveName, store, cfg), nil
}

// Login opens the existing drive named driveName. A drive with no objects at
// all doesn't exist: the returned error then matches both ErrUnableToCreate
// and ErrAccountNotFound.
func Login(ctx context.Context, opener Opener, credential, driveName string, opts ...Option) (*Drive, error) {
	if err := checkOpenArgs("login", opener, driveName); err != nil {
		return nil, err
	}

	cfg := newConfig(opts)

	store, err := opener.Open(ctx, credential, driveName)
	if err != nil {
		return nil, &Error{Kind: ErrUnableToCreate, Op: "login", Path: driveName, Err: err}
	}

	keys, err := store.List(ctx)
	if err != nil {
		_ = store.Close()

		return nil, &Error{Kind: ErrUnableToCreate, Op: "login", Path: driveName, Err: err}
	}

	if len(keys) == 0 {
		_ = store.Close()

		return nil, &Error{
			Kind: ErrUnableToCreate, Op: "login", Path: driveName,
			Err: &Error{Kind: ErrAccountNotFound, Op: "login", Path: driveName},
		}
	}

	cfg.logger.Info("logged in", slog.String("drive", driveName))

	return newDrive(driveName, store, cfg), nil
}

func checkOpenArgs(op string, opener Opener, driveName string) error {
	if opener == nil {
		return &Error{Kind: ErrInvalidParameter, Op: op, Path: driveName, Msg: "no opener given"}
	}

	if driveName == "" {
		return &Error{Kind: ErrInvalidParameter, Op: op, Msg: "drive name must not be empty"}
	}

	if !validDriveName(driveName) {
		return &Error{Kind: ErrInvalidParameter, Op: op, Path: driveName, Msg: "drive name must be a single path segment"}
	}

	return nil
}

// Name returns the name of the drive.
func (d *Drive) Name() string {
	return d.name
}

func (d *Drive) String() string {
	return fmt.Sprintf("<Drive %s>", d.name)
}

// Close releases the underlying store.
func (d *Drive) Close() error {
	return d.store.Close()
}

// Files lists the keys of all files in the drive, in the order the store
// returns them. Sentinels (the drive's own and folder markers) are left out.
func (d *Drive) Files(ctx context.Context) ([]string, error) {
	keys, err := d.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", d.name, err)
	}

	files := make([]string, 0, len(keys))

	for _, k := range keys {
		if IsSentinel(k) {
			continue
		}

		files = append(files, k)
	}

	return files, nil
}

// Folders lists the folders created in the drive with CreateFolder.
func (d *Drive) Folders(ctx context.Context) ([]string, error) {
	keys, err := d.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", d.name, err)
	}

	folders := []string{}

	for _, k := range keys {
		if k == SentinelName || !IsSentinel(k) {
			continue
		}

		folders = append(folders, path.Dir(k))
	}

	return folders, nil
}

// CreateFolder creates folder by writing its marker object. Creating an
// existing folder is not an error.
func (d *Drive) CreateFolder(ctx context.Context, folder string) error {
	if folder == "" {
		return &Error{Kind: ErrInvalidParameter, Op: "create folder", Msg: "folder name must not be empty"}
	}

	key := FolderMarker(folder)

	err := d.store.Put(ctx, key, []byte(sentinelContent))
	if err != nil {
		return fmt.Errorf("create folder %s: %w", folder, err)
	}

	d.logger.Info("created folder", slog.String("folder", folder))

	return nil
}

// UploadInput describes a file to upload. Exactly one of LocalPath and
// Content must be set.
type UploadInput struct {
	// Content is read fully before uploading. An empty reader uploads an
	// empty file.
	Content io.Reader
	// Name is the name of the file in the drive.
	Name string
	// Folder is the folder to upload into. Empty means the drive root.
	Folder string
	// LocalPath is the path of a local file to upload.
	LocalPath string
}

// Upload writes a file to the drive, replacing any file already stored under
// the same key.
func (d *Drive) Upload(ctx context.Context, in UploadInput) error {
	if (in.LocalPath == "") == (in.Content == nil) {
		return &Error{
			Kind: ErrInvalidFile, Op: "upload", Path: in.Name,
			Msg: "exactly one of a local file path or content must be given",
		}
	}

	if in.Name == "" {
		return &Error{Kind: ErrInvalidParameter, Op: "upload", Msg: "file name must not be empty"}
	}

	var (
		data []byte
		err  error
	)

	if in.LocalPath != "" {
		data, err = os.ReadFile(in.LocalPath)
	} else {
		data, err = io.ReadAll(in.Content)
	}

	if err != nil {
		return &Error{Kind: ErrInvalidFile, Op: "upload", Path: in.Name, Err: err}
	}

	key := JoinKey(in.Folder, in.Name)
	if key == SentinelName {
		return &Error{Kind: ErrInvalidParameter, Op: "upload", Path: key, Msg: "the drive sentinel can't be overwritten"}
	}

	d.logger.Info("uploading", slog.String("path", key))

	start := time.Now()

	err = d.store.Put(ctx, key, data)
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}

	d.logCompleted(key, len(data), time.Since(start))

	return nil
}

// UploadFromURL downloads the content at url and stores it as fileName in
// folder (empty means the drive root). The whole body is held in memory, and
// is returned on success. Failing to fetch the URL, including an HTTP error
// status, is reported as ErrInvalidURL.
func (d *Drive) UploadFromURL(ctx context.Context, url, fileName, folder string) ([]byte, error) {
	if fileName == "" {
		return nil, &Error{Kind: ErrInvalidParameter, Op: "upload", Path: url, Msg: "file name must not be empty"}
	}

	key := JoinKey(folder, fileName)

	start := time.Now()

	content, err := d.fetch(ctx, url)
	if err != nil {
		return nil, &Error{
			Kind: ErrInvalidURL, Op: "upload", Path: url,
			Msg: "URL is not valid or the file is not accessible", Err: err,
		}
	}

	d.logger.Info("uploading", slog.String("path", key), slog.String("url", url))

	err = d.store.Put(ctx, key, content)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}

	d.logCompleted(key, len(content), time.Since(start))

	return content, nil
}

// Rename moves the file oldName to newName, replacing any file at newName.
//
// Stores offer no multi-key transactions, so this is a copy followed by a
// delete: if the delete fails, both files remain.
func (d *Drive) Rename(ctx context.Context, oldName, newName string) error {
	if newName == "" {
		return &Error{Kind: ErrInvalidParameter, Op: "rename", Path: oldName, Msg: "new name must not be empty"}
	}

	if oldName == SentinelName || newName == SentinelName {
		return &Error{Kind: ErrInvalidParameter, Op: "rename", Path: oldName, Msg: "the drive sentinel can't be renamed or replaced"}
	}

	s, err := d.open(ctx, "rename", oldName)
	if err != nil {
		return err
	}

	if oldName == newName {
		_ = s.Close()

		return nil
	}

	content, err := io.ReadAll(s)

	_ = s.Close()

	if err != nil {
		return fmt.Errorf("rename %s: read: %w", oldName, err)
	}

	err = d.store.Put(ctx, newName, content)
	if err != nil {
		return fmt.Errorf("rename %s: %w", oldName, err)
	}

	d.logger.Info("renamed", slog.String("from", oldName), slog.String("to", newName))

	err = d.store.Delete(ctx, oldName)
	if err != nil {
		return fmt.Errorf("rename %s: delete original: %w", oldName, err)
	}

	return nil
}

// Download writes the file fileName to the same relative path under the
// drive's local directory (see WithLocalDir), creating parent directories as
// needed and truncating any existing file. Nothing is written locally when
// the file doesn't exist in the drive.
func (d *Drive) Download(ctx context.Context, fileName string) error {
	dst, err := d.localPath("download", fileName)
	if err != nil {
		return err
	}

	s, err := d.open(ctx, "download", fileName)
	if err != nil {
		return err
	}

	defer s.Close()

	d.logger.Info("downloading", slog.String("path", fileName))

	start := time.Now()

	size, err := writeChunks(dst, s.Chunks(d.chunkSize))
	if err != nil {
		return fmt.Errorf("download %s: %w", fileName, err)
	}

	d.logCompleted(fileName, size, time.Since(start))

	return nil
}

func writeChunks(dst string, chunks iter.Seq2[[]byte, error]) (int, error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, fmt.Errorf("create parent directory: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return 0, err
	}

	size := 0

	for chunk, err := range chunks {
		if err != nil {
			_ = f.Close()

			return size, err
		}

		n, werr := f.Write(chunk)
		size += n

		if werr != nil {
			_ = f.Close()

			return size, werr
		}
	}

	return size, f.Close()
}

// localPath resolves the local destination for fileName, refusing keys that
// would escape the local directory.
func (d *Drive) localPath(op, fileName string) (string, error) {
	p := filepath.FromSlash(fileName)
	if fileName == "" || !filepath.IsLocal(p) {
		return "", &Error{Kind: ErrInvalidParameter, Op: op, Path: fileName, Msg: "not a valid local path"}
	}

	return filepath.Join(d.localDir, p), nil
}

// FileStream opens the file fileName for reading. The caller must close the
// returned Stream.
func (d *Drive) FileStream(ctx context.Context, fileName string) (*Stream, error) {
	return d.open(ctx, "stream", fileName)
}

// Cache reads the whole of the file fileName into memory.
func (d *Drive) Cache(ctx context.Context, fileName string) ([]byte, error) {
	s, err := d.open(ctx, "cache", fileName)
	if err != nil {
		return nil, err
	}

	defer s.Close()

	d.logger.Info("caching", slog.String("path", fileName))

	start := time.Now()

	// seeded so that empty files read back as empty, not nil
	buf := bytes.NewBuffer(make([]byte, 0, d.chunkSize))

	for chunk, err := range s.Chunks(d.chunkSize) {
		if err != nil {
			return nil, fmt.Errorf("cache %s: %w", fileName, err)
		}

		buf.Write(chunk)
	}

	d.logCompleted(fileName, buf.Len(), time.Since(start))

	return buf.Bytes(), nil
}

// DownloadAll downloads every file in the drive, one after the other. The
// first failure stops the sequence.
func (d *Drive) DownloadAll(ctx context.Context) error {
	files, err := d.Files(ctx)
	if err != nil {
		return err
	}

	for _, name := range files {
		if err := d.Download(ctx, name); err != nil {
			return err
		}
	}

	return nil
}

// Delete removes the file fileName. Deleting a missing file is not an error.
// An empty name and the drive sentinel are ignored.
func (d *Drive) Delete(ctx context.Context, fileName string) error {
	if fileName == "" || fileName == SentinelName {
		return nil
	}

	err := d.store.Delete(ctx, fileName)
	if err != nil {
		return fmt.Errorf("delete %s: %w", fileName, err)
	}

	d.logger.Info("deleted", slog.String("path", fileName))

	return nil
}

// DeleteAll removes every file and folder in the drive with a single batch
// request. The drive sentinel is kept (and restored first if it went
// missing), so the drive can still be opened with Login afterwards.
func (d *Drive) DeleteAll(ctx context.Context) error {
	keys, err := d.store.List(ctx)
	if err != nil {
		return fmt.Errorf("delete all %s: %w", d.name, err)
	}

	victims := make([]string, 0, len(keys))
	hasSentinel := false

	for _, k := range keys {
		if k == SentinelName {
			hasSentinel = true

			continue
		}

		victims = append(victims, k)
	}

	if !hasSentinel {
		err = d.store.Put(ctx, SentinelName, []byte(sentinelContent))
		if err != nil {
			return fmt.Errorf("delete all %s: restore sentinel: %w", d.name, err)
		}
	}

	if len(victims) > 0 {
		err = d.store.DeleteMany(ctx, victims)
		if err != nil {
			return fmt.Errorf("delete all %s: %w", d.name, err)
		}
	}

	d.logger.Info("deleted all files", slog.String("drive", d.name), slog.Int("count", len(victims)))

	return nil
}

// open gets key from the store, translating a missing key to ErrFileNotFound
func (d *Drive) open(ctx context.Context, op, key string) (*Stream, error) {
	if key == "" {
		return nil, &Error{Kind: ErrInvalidParameter, Op: op, Msg: "file name must not be empty"}
	}

	rc, err := d.store.Get(ctx, key)
	if errors.Is(err, ErrNotExist) {
		return nil, &Error{Kind: ErrFileNotFound, Op: op, Path: key, Msg: "file does not exist"}
	}

	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, key, err)
	}

	return &Stream{rc: rc, name: key}, nil
}

func (d *Drive) logCompleted(key string, size int, elapsed time.Duration) {
	d.logger.Info("completed",
		slog.String("path", key),
		slog.String("size", formatSize(size)),
		slog.String("elapsed", formatElapsed(elapsed)),
	)
}
