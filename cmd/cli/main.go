// Command dv is a CLI client for the DocuVault service.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/and161185/docuvault/internal/model"
	"github.com/and161185/docuvault/internal/session"
)

// ---- wire types (mirror the server DTOs) ----

type userPayload struct {
	UID   int64  `json:"uid"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type loginPayload struct {
	Token   string      `json:"token"`
	Expires time.Time   `json:"expires"`
	User    userPayload `json:"user"`
}

type recordPayload struct {
	ID             string    `json:"id"`
	Filename       string    `json:"filename"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Tags           []string  `json:"tags"`
	FileType       string    `json:"fileType"`
	ExternalLink   string    `json:"externalLink,omitempty"`
	PhysicalCopies int       `json:"physicalCopies"`
	CreatedAt      time.Time `json:"createdAt"`
}

type listPayload struct {
	Files      []recordPayload `json:"files"`
	Categories []string        `json:"categories"`
	Tags       []string        `json:"tags"`
}

// ---- utils ----

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func readAll(p string) ([]byte, error) {
	if p == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(p)
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func mustSession(store *session.Store) model.Session {
	sess, err := store.Load()
	if err != nil {
		fail(err)
	}
	return sess
}

func usage() {
	fmt.Fprintf(os.Stderr, `dv CLI
Usage:
  dv -addr URL <cmd> [args]

Commands:
  version
  register -name <name> -email <email>
  login    -uid <id>                              (saves session)
  whoami
  logout
  upload   -file <path> -name <n> -category <c> [-desc d] [-tags a,b] [-mime m]
  link     -url <link> -name <n> -category <c> [-desc d] [-tags a,b]
  list     [-category c] [-tag t] [-type all|regular|large]
  get      -id <uuid>
  preview  -id <uuid>
  open     -id <uuid> [-o <path>]
  edit     -id <uuid> [-name n] [-desc d] [-category c] [-tags a,b] [-url link]
  copies   -id <uuid> -delta <n>
  rm       -id <uuid>
`)
	os.Exit(2)
}

// ---- main ----

var (
	version   = "dev"
	buildDate = "unknown"
)

// main dispatches subcommands against the DocuVault HTTP API.
func main() {
	// global flags
	addr := flag.String("addr", "http://localhost:8080", "server base URL")
	cfgDir := flag.String("config-dir", "", "config directory (default: user config dir)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)
	rest := flag.Args()[1:]

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store := session.NewStore(*cfgDir)

	switch cmd {

	case "version":
		fmt.Printf("dv %s (%s)\n", version, buildDate)

	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		name := fs.String("name", "", "display name")
		email := fs.String("email", "", "email address")
		_ = fs.Parse(rest)
		if *name == "" || *email == "" {
			fmt.Fprintln(os.Stderr, "need -name and -email")
			os.Exit(1)
		}

		cli := newClient(*addr, "")
		var out struct {
			UID int64 `json:"uid"`
		}
		if err := cli.doJSON(ctx, "POST", "/api/register", map[string]string{"name": *name, "email": *email}, &out); err != nil {
			fail(err)
		}
		fmt.Printf("your id: %d (keep it safe, it is the only way back in)\n", out.UID)

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		uid := fs.Int64("uid", 0, "unique id")
		_ = fs.Parse(rest)
		if *uid <= 0 {
			fmt.Fprintln(os.Stderr, "need -uid")
			os.Exit(1)
		}

		cli := newClient(*addr, "")
		var out loginPayload
		if err := cli.doJSON(ctx, "POST", "/api/login", map[string]int64{"uid": *uid}, &out); err != nil {
			fail(err)
		}
		err := store.Save(model.Session{
			Name:     out.User.Name,
			Email:    out.User.Email,
			UID:      out.User.UID,
			LoggedIn: true,
			Token:    out.Token,
			Expires:  out.Expires,
		})
		if err != nil {
			fail(err)
		}
		fmt.Printf("ok, signed in as %s\n", out.User.Name)

	case "whoami":
		sess := mustSession(store)
		printJSON(map[string]any{"name": sess.Name, "email": sess.Email, "uid": sess.UID})

	case "logout":
		if err := store.Clear(); err != nil {
			fail(err)
		}
		fmt.Println("signed out")

	case "upload":
		fs := flag.NewFlagSet("upload", flag.ExitOnError)
		file := fs.String("file", "", "file path or - for stdin")
		name := fs.String("name", "", "display name")
		category := fs.String("category", "", "category")
		desc := fs.String("desc", "", "description")
		tags := fs.String("tags", "", "comma-separated tags")
		mimeType := fs.String("mime", "", "MIME type (default: by extension)")
		_ = fs.Parse(rest)
		if *file == "" || *name == "" || *category == "" {
			fmt.Fprintln(os.Stderr, "need -file, -name and -category")
			os.Exit(1)
		}

		raw, err := readAll(*file)
		if err != nil {
			fail(err)
		}
		mt := *mimeType
		if mt == "" {
			mt = mime.TypeByExtension(filepath.Ext(*file))
		}

		sess := mustSession(store)
		cli := newClient(*addr, sess.Token)
		var rec recordPayload
		err = cli.doJSON(ctx, "POST", "/api/files", map[string]any{
			"filename":    *name,
			"description": *desc,
			"category":    *category,
			"tags":        splitTags(*tags),
			"fileType":    "regular",
			"content":     base64.StdEncoding.EncodeToString(raw),
			"mime":        mt,
		}, &rec)
		if err != nil {
			fail(err)
		}
		printJSON(rec)

	case "link":
		fs := flag.NewFlagSet("link", flag.ExitOnError)
		url := fs.String("url", "", "external link")
		name := fs.String("name", "", "display name")
		category := fs.String("category", "", "category")
		desc := fs.String("desc", "", "description")
		tags := fs.String("tags", "", "comma-separated tags")
		_ = fs.Parse(rest)
		if *url == "" || *name == "" || *category == "" {
			fmt.Fprintln(os.Stderr, "need -url, -name and -category")
			os.Exit(1)
		}

		sess := mustSession(store)
		cli := newClient(*addr, sess.Token)
		var rec recordPayload
		err := cli.doJSON(ctx, "POST", "/api/files", map[string]any{
			"filename":     *name,
			"description":  *desc,
			"category":     *category,
			"tags":         splitTags(*tags),
			"fileType":     "large",
			"externalLink": *url,
		}, &rec)
		if err != nil {
			fail(err)
		}
		printJSON(rec)

	case "list":
		fs := flag.NewFlagSet("list", flag.ExitOnError)
		category := fs.String("category", "", "filter by category")
		tag := fs.String("tag", "", "filter by tag")
		typ := fs.String("type", "all", "all|regular|large")
		_ = fs.Parse(rest)

		q := url.Values{}
		if *category != "" {
			q.Set("category", *category)
		}
		if *tag != "" {
			q.Set("tag", *tag)
		}
		if *typ != "all" {
			q.Set("type", *typ)
		}
		path := "/api/files"
		if len(q) > 0 {
			path += "?" + q.Encode()
		}

		sess := mustSession(store)
		cli := newClient(*addr, sess.Token)
		var out listPayload
		if err := cli.doJSON(ctx, "GET", path, nil, &out); err != nil {
			fail(err)
		}
		printJSON(out)

	case "get":
		id := parseID(rest)
		sess := mustSession(store)
		cli := newClient(*addr, sess.Token)
		var rec recordPayload
		if err := cli.doJSON(ctx, "GET", "/api/files/"+id, nil, &rec); err != nil {
			fail(err)
		}
		printJSON(rec)

	case "preview":
		id := parseID(rest)
		sess := mustSession(store)
		cli := newClient(*addr, sess.Token)
		var out map[string]any
		if err := cli.doJSON(ctx, "GET", "/api/files/"+id+"/preview", nil, &out); err != nil {
			fail(err)
		}
		printJSON(out)

	case "open":
		fs := flag.NewFlagSet("open", flag.ExitOnError)
		id := fs.String("id", "", "record id")
		out := fs.String("o", "", "output path (default: stdout)")
		_ = fs.Parse(rest)
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}

		sess := mustSession(store)
		cli := newClient(*addr, sess.Token)
		raw, ct, err := cli.download(ctx, "/api/files/"+*id+"/content")
		if err != nil {
			fail(err)
		}
		if *out == "" {
			_, _ = os.Stdout.Write(raw)
			return
		}
		if err := os.WriteFile(*out, raw, 0o600); err != nil {
			fail(err)
		}
		fmt.Printf("saved %d bytes (%s) to %s\n", len(raw), ct, *out)

	case "edit":
		fs := flag.NewFlagSet("edit", flag.ExitOnError)
		id := fs.String("id", "", "record id")
		name := fs.String("name", "", "new display name")
		desc := fs.String("desc", "", "new description")
		category := fs.String("category", "", "new category")
		tags := fs.String("tags", "", "new comma-separated tags")
		url := fs.String("url", "", "external link (switches the record to large)")
		_ = fs.Parse(rest)
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}

		// Only flags the user actually set become part of the patch.
		patch := map[string]any{}
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "name":
				patch["filename"] = *name
			case "desc":
				patch["description"] = *desc
			case "category":
				patch["category"] = *category
			case "tags":
				patch["tags"] = splitTags(*tags)
			case "url":
				patch["fileType"] = "large"
				patch["externalLink"] = *url
			}
		})
		if len(patch) == 0 {
			fail(errors.New("nothing to change"))
		}

		sess := mustSession(store)
		cli := newClient(*addr, sess.Token)
		var rec recordPayload
		if err := cli.doJSON(ctx, "PATCH", "/api/files/"+*id, patch, &rec); err != nil {
			fail(err)
		}
		printJSON(rec)

	case "copies":
		fs := flag.NewFlagSet("copies", flag.ExitOnError)
		id := fs.String("id", "", "record id")
		delta := fs.Int("delta", 0, "change (+/-)")
		_ = fs.Parse(rest)
		if *id == "" || *delta == 0 {
			fmt.Fprintln(os.Stderr, "need -id and non-zero -delta")
			os.Exit(1)
		}

		sess := mustSession(store)
		cli := newClient(*addr, sess.Token)
		var out struct {
			PhysicalCopies int `json:"physicalCopies"`
		}
		if err := cli.doJSON(ctx, "POST", "/api/files/"+*id+"/copies", map[string]int{"delta": *delta}, &out); err != nil {
			fail(err)
		}
		fmt.Printf("physical copies: %d\n", out.PhysicalCopies)

	case "rm":
		id := parseID(rest)
		sess := mustSession(store)
		cli := newClient(*addr, sess.Token)
		if err := cli.doJSON(ctx, "DELETE", "/api/files/"+id, nil, nil); err != nil {
			fail(err)
		}
		fmt.Println("deleted")

	default:
		usage()
	}
}

func parseID(args []string) string {
	fs := flag.NewFlagSet("id", flag.ExitOnError)
	id := fs.String("id", "", "record id")
	_ = fs.Parse(args)
	if *id == "" {
		fmt.Fprintln(os.Stderr, "need -id")
		os.Exit(1)
	}
	return *id
}
