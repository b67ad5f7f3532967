package wiki

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
)

// FileNamespace - prefix of file page titles
const FileNamespace = "File:"

var (
	// ErrFileExists - a file with this name is already on the wiki
	ErrFileExists = errors.New("file already exists")
	// ErrFileDeleted - a file with this name was deleted before
	ErrFileDeleted = errors.New("file was deleted")
)

// DuplicateError - the same content is already uploaded under another name
type DuplicateError struct {
	Existing string // title with namespace
}

func (e *DuplicateError) Error() string {
	return "duplicate of " + e.Existing
}

// FileTitle normalizes a file name to a page title with the File: prefix.
func FileTitle(name string) string {
	if strings.HasPrefix(name, FileNamespace) {
		return name
	}
	return FileNamespace + name
}

// UploadRequest - a file upload
type UploadRequest struct {
	Filename       string // without namespace
	Content        io.Reader
	Text           string // initial page text
	Comment        string
	IgnoreWarnings bool
}

type uploadResponse struct {
	Upload struct {
		Result   string         `json:"result"`
		Filename string         `json:"filename"`
		Warnings map[string]any `json:"warnings"`
	} `json:"upload"`
}

// Upload sends a file. Warnings the API raises come back as ErrFileExists,
// ErrFileDeleted or *DuplicateError.
func (c *Client) Upload(ctx context.Context, r UploadRequest) error {
	filename := strings.TrimPrefix(r.Filename, FileNamespace)
	if c.opts.DryRun {
		log.Info().Str("file", filename).Msg("[Wiki] dry run, upload skipped")
		return nil
	}
	token, err := c.csrfToken(ctx)
	if err != nil {
		return err
	}
	params := url.Values{
		"action":   {"upload"},
		"filename": {filename},
		"text":     {r.Text},
		"comment":  {r.Comment},
		"token":    {token},
	}
	if r.IgnoreWarnings {
		params.Set("ignorewarnings", "1")
	}
	var resp uploadResponse
	if err := c.postMultipart(ctx, params, "file", filename, r.Content, &resp); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Code == "fileexists-no-change" {
			return ErrFileExists
		}
		return fmt.Errorf("upload %s: %w", filename, err)
	}
	if resp.Upload.Result == "Success" {
		log.Info().Str("file", filename).Msg("[Wiki] uploaded")
		return nil
	}
	return uploadWarning(filename, resp.Upload.Result, resp.Upload.Warnings)
}

func uploadWarning(filename, result string, warnings map[string]any) error {
	if _, ok := warnings["exists"]; ok {
		return ErrFileExists
	}
	if _, ok := warnings["was-deleted"]; ok {
		return ErrFileDeleted
	}
	if dup, ok := warnings["duplicate"].([]any); ok && len(dup) > 0 {
		if name, ok := dup[0].(string); ok {
			return &DuplicateError{Existing: FileTitle(name)}
		}
	}
	return fmt.Errorf("upload %s: result %s, warnings %v", filename, result, warnings)
}
