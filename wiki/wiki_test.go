package wiki

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWiki is a minimal in-memory MediaWiki Action API.
type fakeWiki struct {
	mu       sync.Mutex
	pages    map[string]string
	files    map[string]string
	edits    []string
	queries  int
	loggedIn bool
	upload   string // canned upload response
}

func newFakeWiki() *fakeWiki {
	return &fakeWiki{pages: map[string]string{}, files: map[string]string{}}
}

func (f *fakeWiki) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	switch r.FormValue("action") {
	case "query":
		if r.FormValue("meta") == "tokens" {
			kind := r.FormValue("type")
			fmt.Fprintf(w, `{"query":{"tokens":{"%stoken":"%s-token"}}}`, kind, kind)
			return
		}
		f.queries++
		f.writePages(w, strings.Split(r.FormValue("titles"), "|"))
	case "login":
		if r.FormValue("lgtoken") != "login-token" || r.FormValue("lgpassword") != "secret" {
			io.WriteString(w, `{"login":{"result":"Failed","reason":"bad password"}}`)
			return
		}
		f.loggedIn = true
		io.WriteString(w, `{"login":{"result":"Success","lgusername":"Bot"}}`)
	case "edit":
		if r.FormValue("token") != "csrf-token" {
			io.WriteString(w, `{"error":{"code":"badtoken","info":"Invalid CSRF token."}}`)
			return
		}
		f.pages[r.FormValue("title")] = r.FormValue("text")
		f.edits = append(f.edits, r.FormValue("title"))
		io.WriteString(w, `{"edit":{"result":"Success"}}`)
	case "upload":
		if f.upload != "" {
			io.WriteString(w, f.upload)
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		data, _ := io.ReadAll(file)
		f.files[r.FormValue("filename")] = string(data)
		io.WriteString(w, `{"upload":{"result":"Success"}}`)
	case "move":
		f.pages[r.FormValue("to")] = f.pages[r.FormValue("from")]
		io.WriteString(w, `{"move":{}}`)
	default:
		io.WriteString(w, `{"error":{"code":"badvalue","info":"Unrecognized action."}}`)
	}
}

func (f *fakeWiki) writePages(w io.Writer, titles []string) {
	var parts, norm []string
	for _, t := range titles {
		canonical := t
		if strings.Contains(t, "_") {
			canonical = strings.ReplaceAll(t, "_", " ")
			norm = append(norm, fmt.Sprintf(`{"from":%q,"to":%q}`, t, canonical))
		}
		if strings.ContainsAny(t, "[]{}") {
			parts = append(parts, fmt.Sprintf(`{"title":%q,"invalidreason":"illegal characters","invalid":true}`, t))
			continue
		}
		text, ok := f.pages[canonical]
		if !ok {
			parts = append(parts, fmt.Sprintf(`{"title":%q,"missing":true}`, canonical))
			continue
		}
		parts = append(parts, fmt.Sprintf(`{"title":%q,"revisions":[{"slots":{"main":{"content":%q}}}]}`, canonical, text))
	}
	fmt.Fprintf(w, `{"query":{"normalized":[%s],"pages":[%s]}}`, strings.Join(norm, ","), strings.Join(parts, ","))
}

func newTestClient(t *testing.T, fw *fakeWiki, dryRun bool) *Client {
	t.Helper()
	srv := httptest.NewServer(fw)
	t.Cleanup(srv.Close)
	c, err := New(Options{API: srv.URL, User: "Bot@wikigen", Password: "secret", DryRun: dryRun})
	require.NoError(t, err)
	return c
}

func TestLogin(t *testing.T) {
	fw := newFakeWiki()
	c := newTestClient(t, fw, false)

	require.NoError(t, c.Login(context.Background()))
	assert.True(t, fw.loggedIn)

	c.opts.Password = "wrong"
	assert.Error(t, c.Login(context.Background()))
}

func TestPages_BatchesAndOrder(t *testing.T) {
	fw := newFakeWiki()
	var titles []string
	for i := 0; i < 120; i++ {
		title := fmt.Sprintf("Page %d", i)
		titles = append(titles, title)
		if i%2 == 0 {
			fw.pages[title] = "text " + title
		}
	}
	titles[3] = "Page_3"
	c := newTestClient(t, fw, false)

	pages, err := c.Pages(context.Background(), titles)
	require.NoError(t, err)
	require.Len(t, pages, 120)
	assert.Equal(t, 3, fw.queries)
	assert.Equal(t, "text Page 0", pages[0].Text)
	assert.True(t, pages[0].Exists)
	assert.False(t, pages[1].Exists)
	assert.Equal(t, "Page 3", pages[3].Title)
	assert.Equal(t, "Page 119", pages[119].Title)
}

func TestPages_InvalidTitleIsMissing(t *testing.T) {
	fw := newFakeWiki()
	fw.pages["Amber"] = "amber"
	c := newTestClient(t, fw, false)

	pages, err := c.Pages(context.Background(), []string{"Amber", "Bad[Name]", "Nazuna"})
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.True(t, pages[0].Exists)
	assert.Equal(t, "Bad[Name]", pages[1].Title)
	assert.False(t, pages[1].Exists)
	assert.Empty(t, pages[1].Text)
	assert.False(t, pages[2].Exists)
}

func TestSave_OnlyWhenChanged(t *testing.T) {
	fw := newFakeWiki()
	fw.pages["Amber"] = "{{TrekkerData}}\n"
	c := newTestClient(t, fw, false)
	ctx := context.Background()

	page, err := c.Page(ctx, "Amber")
	require.NoError(t, err)

	changed, err := c.Save(ctx, page, "{{TrekkerData}}", "update")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, fw.edits)

	changed, err = c.Save(ctx, page, "{{TrekkerData|id=103}}", "update")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "{{TrekkerData|id=103}}", fw.pages["Amber"])
	assert.Equal(t, "{{TrekkerData|id=103}}", page.Text)
}

func TestSave_DryRun(t *testing.T) {
	fw := newFakeWiki()
	c := newTestClient(t, fw, true)

	changed, err := c.Save(context.Background(), &Page{Title: "New"}, "text", "create")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Empty(t, fw.edits)
	assert.NoError(t, c.Upload(context.Background(), UploadRequest{Filename: "a.png", Content: strings.NewReader("x")}))
	assert.Empty(t, fw.files)
}

func TestAPIError(t *testing.T) {
	fw := newFakeWiki()
	c := newTestClient(t, fw, false)

	err := c.get(context.Background(), map[string][]string{"action": {"nope"}}, nil)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "badvalue", apiErr.Code)
}

func TestRedirectAndMove(t *testing.T) {
	fw := newFakeWiki()
	fw.pages["File:Old.png"] = "desc"
	c := newTestClient(t, fw, false)
	ctx := context.Background()

	require.NoError(t, c.Redirect(ctx, "File:Alias.png", "File:Old.png", "redirect"))
	assert.Equal(t, "#REDIRECT [[File:Old.png]]", fw.pages["File:Alias.png"])

	require.NoError(t, c.Move(ctx, "File:Old.png", "File:New.png", "rename"))
	assert.Equal(t, "desc", fw.pages["File:New.png"])
}

func TestUpload(t *testing.T) {
	fw := newFakeWiki()
	c := newTestClient(t, fw, false)
	ctx := context.Background()

	err := c.Upload(ctx, UploadRequest{Filename: "File:Icon a.png", Content: strings.NewReader("png-bytes"), Text: "[[Category:Icons]]"})
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", fw.files["Icon a.png"])

	fw.upload = `{"upload":{"result":"Warning","warnings":{"duplicate":["Icon_b.png"]}}}`
	err = c.Upload(ctx, UploadRequest{Filename: "Icon c.png", Content: strings.NewReader("x")})
	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "File:Icon_b.png", dup.Existing)

	fw.upload = `{"upload":{"result":"Warning","warnings":{"exists":"Icon c.png"}}}`
	err = c.Upload(ctx, UploadRequest{Filename: "Icon c.png", Content: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrFileExists)

	fw.upload = `{"upload":{"result":"Warning","warnings":{"was-deleted":"Icon c.png"}}}`
	err = c.Upload(ctx, UploadRequest{Filename: "Icon c.png", Content: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrFileDeleted)
}

func TestFileTitle(t *testing.T) {
	assert.Equal(t, "File:a.png", FileTitle("a.png"))
	assert.Equal(t, "File:a.png", FileTitle("File:a.png"))
}
