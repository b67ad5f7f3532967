package upload

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellasorawiki/wikigen/wiki"
)

type fakeWiki struct {
	existing  map[string]bool
	uploadErr map[string]error
	uploaded  map[string][]byte
	redirects map[string]string
	moves     map[string]string
}

func newFakeWiki() *fakeWiki {
	return &fakeWiki{
		existing:  map[string]bool{},
		uploadErr: map[string]error{},
		uploaded:  map[string][]byte{},
		redirects: map[string]string{},
		moves:     map[string]string{},
	}
}

func (f *fakeWiki) Exists(_ context.Context, titles []string) (map[string]bool, error) {
	out := map[string]bool{}
	for _, t := range titles {
		if f.existing[t] {
			out[t] = true
		}
	}
	return out, nil
}

func (f *fakeWiki) Upload(_ context.Context, r wiki.UploadRequest) error {
	if err, ok := f.uploadErr[r.Filename]; ok {
		return err
	}
	data, _ := io.ReadAll(r.Content)
	f.uploaded[r.Filename] = data
	return nil
}

func (f *fakeWiki) Redirect(_ context.Context, title, target, _ string) error {
	f.redirects[title] = target
	return nil
}

func (f *fakeWiki) Move(_ context.Context, from, to, _ string) error {
	f.moves[from] = to
	return nil
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.NRGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestProcess(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.png", "c.png", "d.png"} {
		writePNG(t, filepath.Join(dir, name), 4, 4)
	}
	fw := newFakeWiki()
	fw.existing["File:Icon b.png"] = true
	fw.uploadErr["File:Icon c.png"] = &wiki.DuplicateError{Existing: "File:Old c.png"}
	fw.uploadErr["File:Icon d.png"] = wiki.ErrFileDeleted

	reqs := []Request{
		{Source: filepath.Join(dir, "a.png"), Target: "Icon a.png", Text: "[[Category:Item icons]]"},
		{Source: filepath.Join(dir, "b.png"), Target: "File:Icon b.png"},
		{Source: filepath.Join(dir, "c.png"), Target: "Icon c.png"},
		{Source: filepath.Join(dir, "d.png"), Target: "Icon d.png"},
		{Source: filepath.Join(dir, "missing.png"), Target: "Icon e.png"},
		{Source: filepath.Join(dir, "a.png"), Target: "Icon a.png"},
	}

	res, err := Process(context.Background(), fw, reqs, Options{})
	require.NoError(t, err)
	assert.Equal(t, Result{Uploaded: 1, Existing: 2, Duplicates: 1, Missing: 1}, res)
	assert.Contains(t, fw.uploaded, "File:Icon a.png")
	assert.Equal(t, "File:Icon c.png", fw.moves["File:Old c.png"])
	// the caller's requests are left as they were
	assert.Equal(t, "Icon a.png", reqs[0].Target)
	assert.Empty(t, reqs[0].Summary)
}

func TestProcess_DuplicatePolicies(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "x.png")
	writePNG(t, src, 2, 2)

	fw := newFakeWiki()
	fw.uploadErr["File:X.png"] = &wiki.DuplicateError{Existing: "File:Y.png"}
	reqs := func() []Request { return []Request{{Source: src, Target: "X.png"}} }

	_, err := Process(context.Background(), fw, reqs(), Options{Duplicates: DuplicateRedirect})
	require.NoError(t, err)
	assert.Equal(t, "File:Y.png", fw.redirects["File:X.png"])

	_, err = Process(context.Background(), fw, reqs(), Options{Duplicates: DuplicateSkip})
	require.NoError(t, err)
	assert.Empty(t, fw.moves)

	_, err = Process(context.Background(), fw, reqs(), Options{Duplicates: DuplicateFail})
	assert.Error(t, err)
}

func TestShrink(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "big.png")
	writePNG(t, src, 400, 200)
	data, err := os.ReadFile(src)
	require.NoError(t, err)

	out, err := Shrink(data, 100)
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)

	same, err := Shrink(data, 500)
	require.NoError(t, err)
	assert.Equal(t, data, same)

	_, err = Shrink([]byte("not a png"), 10)
	assert.Error(t, err)
}

func TestParseDuplicatePolicy(t *testing.T) {
	for in, want := range map[string]DuplicatePolicy{
		"":         DuplicateMove,
		"Redirect": DuplicateRedirect,
		" skip ":   DuplicateSkip,
		"fail":     DuplicateFail,
	} {
		got, err := ParseDuplicatePolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseDuplicatePolicy("shred")
	assert.Error(t, err)
}
