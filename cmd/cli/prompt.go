package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/axellelanca/creatorverse/cmd"
	"github.com/axellelanca/creatorverse/internal/forms"
	"github.com/axellelanca/creatorverse/internal/store"
)

// openStore connects the configured record store for a single command.
func openStore(ctx context.Context) (store.Backend, error) {
	return store.Open(ctx, cmd.Cfg, cmd.Logger)
}

// pageNavigator prints the page the browser would have moved to.
func pageNavigator(out io.Writer, baseURL string) forms.Navigator {
	return forms.NavigatorFunc(func(route string) {
		fmt.Fprintf(out, "Page: %s%s\n", strings.TrimRight(baseURL, "/"), route)
	})
}

// promptConfirmer asks the question on out and reads a y/N answer from in.
// Anything other than y or yes, including end of input, is a no.
func promptConfirmer(in io.Reader, out io.Writer) forms.Confirmer {
	return forms.ConfirmerFunc(func(message string) bool {
		prompt := promptui.Prompt{
			// the confirm template adds its own question mark
			Label:     strings.TrimSuffix(message, "?"),
			IsConfirm: true,
			Stdin:     io.NopCloser(in),
			Stdout:    nopWriteCloser{out},
		}
		answer, err := prompt.Run()
		if err != nil && !errors.Is(err, promptui.ErrAbort) {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	})
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// alwaysConfirm answers yes without asking, for --yes.
var alwaysConfirm = forms.ConfirmerFunc(func(string) bool { return true })

// printFieldErrors lists validation messages in a stable order.
func printFieldErrors(out io.Writer, fieldErrors map[string]string) {
	fields := make([]string, 0, len(fieldErrors))
	for field := range fieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fmt.Fprintf(out, "  %s: %s\n", field, fieldErrors[field])
	}
}
