package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/wichananm65/craft-catalog/internal/catalog"
	"github.com/wichananm65/craft-catalog/internal/logging"
	"github.com/wichananm65/craft-catalog/internal/session"
	"golang.org/x/term"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive admin session",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := logging.NewConsole(logLevel)
		if err != nil {
			return err
		}
		defer log.Sync()

		m, err := session.NewManager(session.Config{BaseURL: baseURL, Logger: log})
		if err != nil {
			return err
		}
		sh := newShell(m, classifier(), cmd.InOrStdin(), cmd.OutOrStdout())
		return sh.run(cmd.Context())
	},
}

const shellHelp = `commands:
  list                          show products (honours the current filter)
  refresh                       reload products from the server
  login [password]              start an admin session
  logout                        end the session
  add name=.. price=.. [description=..] [category=..] image=<file>
  update <id> name=.. price=.. [description=..] [category=..] [image=<file>]
  delete <id>
  filter <embroidery|dry|wood|metal|all>
  categories                    product counts per category
  quit`

type shell struct {
	m      *session.Manager
	cls    *catalog.Classifier
	filter catalog.Filter
	in     *bufio.Scanner
	out    io.Writer

	readPassword func() (string, error)
}

func newShell(m *session.Manager, cls *catalog.Classifier, in io.Reader, out io.Writer) *shell {
	sh := &shell{m: m, cls: cls, in: bufio.NewScanner(in), out: out}
	sh.readPassword = sh.promptPassword
	return sh
}

func (sh *shell) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	sh.m.FetchProducts(ctx)
	sh.printStatus()

	for {
		fmt.Fprint(sh.out, "> ")
		if !sh.in.Scan() {
			fmt.Fprintln(sh.out)
			return sh.in.Err()
		}
		if quit := sh.exec(ctx, sh.in.Text()); quit {
			return nil
		}
	}
}

// exec runs one command line and reports whether the shell should exit.
func (sh *shell) exec(ctx context.Context, line string) bool {
	args, err := splitArgs(line)
	if err != nil {
		fmt.Fprintln(sh.out, "error:", err)
		return false
	}
	if len(args) == 0 {
		return false
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "quit", "exit":
		return true
	case "help", "?":
		fmt.Fprintln(sh.out, shellHelp)
	case "list", "ls":
		sh.printProducts()
	case "refresh":
		sh.m.FetchProducts(ctx)
		sh.printStatus()
	case "login":
		password := strings.Join(rest, " ")
		if password == "" {
			if password, err = sh.readPassword(); err != nil {
				fmt.Fprintln(sh.out, "error:", err)
				return false
			}
		}
		sh.m.Login(ctx, password)
		sh.printStatus()
	case "logout":
		sh.m.Logout(ctx)
		sh.printStatus()
	case "add":
		sh.write(ctx, rest, func(in session.ProductInput) error {
			return sh.m.CreateProduct(ctx, in)
		})
	case "update":
		if len(rest) == 0 {
			fmt.Fprintln(sh.out, "usage: update <id> name=.. price=..")
			return false
		}
		id := catalog.StringID(rest[0])
		sh.write(ctx, rest[1:], func(in session.ProductInput) error {
			return sh.m.UpdateProduct(ctx, id, in)
		})
	case "delete", "rm":
		if len(rest) != 1 {
			fmt.Fprintln(sh.out, "usage: delete <id>")
			return false
		}
		sh.m.DeleteProduct(ctx, catalog.StringID(rest[0]))
		sh.printStatus()
	case "filter":
		sh.setFilter(rest)
	case "categories":
		sh.printCategories()
	default:
		fmt.Fprintf(sh.out, "unknown command %q, try help\n", cmd)
	}
	return false
}

func (sh *shell) write(ctx context.Context, fields []string, send func(session.ProductInput) error) {
	in, closeImage, err := productInput(fields)
	if err != nil {
		fmt.Fprintln(sh.out, "error:", err)
		return
	}
	defer closeImage()
	send(in)
	sh.printStatus()
}

func (sh *shell) setFilter(args []string) {
	if len(args) != 1 || args[0] == "all" {
		sh.filter.Reset()
		fmt.Fprintln(sh.out, "showing all categories")
		return
	}
	id, ok := catalog.ParseCategory(args[0])
	if !ok {
		fmt.Fprintf(sh.out, "unknown category %q\n", args[0])
		return
	}
	sh.filter.Select(id)
	if sel, ok := sh.filter.Selected(); ok {
		fmt.Fprintf(sh.out, "showing %s\n", sel.Label())
	} else {
		fmt.Fprintln(sh.out, "showing all categories")
	}
}

func (sh *shell) printStatus() {
	snap := sh.m.Snapshot()
	fmt.Fprintf(sh.out, "[%s] %s\n", snap.State, snap.Status)
}

func (sh *shell) printProducts() {
	snap := sh.m.Snapshot()
	if snap.State != session.Authenticated {
		sh.printStatus()
		return
	}
	writeTable(sh.out, sh.cls.Listings(sh.filter, snap.Products))
}

func (sh *shell) printCategories() {
	counts := sh.cls.Counts(sh.m.Snapshot().Products)
	tw := tabwriter.NewWriter(sh.out, 0, 4, 2, ' ', 0)
	for _, id := range catalog.Categories {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", id, id.Label(), counts[id])
	}
	tw.Flush()
}

func writeTable(out io.Writer, listings []catalog.Listing) {
	if len(listings) == 0 {
		fmt.Fprintln(out, "no products")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tCATEGORY\tBADGE\tIMAGE")
	for _, l := range listings {
		badge := "-"
		if l.Badge != nil {
			badge = string(*l.Badge)
		}
		fmt.Fprintf(tw, "%s\t%s\t%v\t%s\t%s\t%s\n", l.ID, l.Name, l.Price, l.CategoryID, badge, l.ImageURL)
	}
	tw.Flush()
}

func (sh *shell) promptPassword() (string, error) {
	fmt.Fprint(sh.out, "password: ")
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(sh.out)
		return string(b), err
	}
	if !sh.in.Scan() {
		return "", errors.New("no password given")
	}
	return sh.in.Text(), nil
}

// productInput turns key=value arguments into a ProductInput. The returned
// func closes the image file, if one was opened.
func productInput(fields []string) (session.ProductInput, func(), error) {
	var in session.ProductInput
	closeImage := func() {}
	fail := func(err error) (session.ProductInput, func(), error) {
		closeImage()
		return session.ProductInput{}, func() {}, err
	}
	for _, f := range fields {
		key, value, ok := strings.Cut(f, "=")
		if !ok {
			return fail(fmt.Errorf("expected key=value, got %q", f))
		}
		switch key {
		case "name":
			in.Name = value
		case "price":
			in.Price = value
		case "description", "desc":
			in.Description = value
		case "category":
			in.Category = value
		case "image":
			if in.Image != nil {
				return fail(errors.New("image given twice"))
			}
			file, err := os.Open(value)
			if err != nil {
				return fail(err)
			}
			in.Image = file
			in.ImageName = filepath.Base(value)
			closeImage = func() { file.Close() }
		default:
			return fail(fmt.Errorf("unknown field %q", key))
		}
	}
	return in, closeImage, nil
}

// splitArgs splits a command line on spaces, keeping double-quoted runs
// together.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		quoted  bool
		started bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
		case (r == ' ' || r == '\t') && !quoted:
			if started {
				args = append(args, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if quoted {
		return nil, errors.New("unterminated quote")
	}
	if started {
		args = append(args, cur.String())
	}
	return args, nil
}
