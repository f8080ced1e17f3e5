package roots

import (
	"context"
	"encoding/json"
	"os"
	"path"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/charmbracelet/x/term"
	"github.com/gruntwork-io/terradeps/internal/discovery"
	"github.com/gruntwork-io/terradeps/internal/errors"
	"github.com/gruntwork-io/terradeps/internal/os/stdout"
	"github.com/gruntwork-io/terradeps/options"
	"github.com/gruntwork-io/terradeps/pkg/log"
	"github.com/mgutz/ansi"
)

// Run runs the roots command.
func Run(ctx context.Context, l log.Logger, opts *Options) error {
	d := discovery.NewDiscovery(opts.SearchPath).
		WithExcludeDirs(opts.ExcludeDirs...).
		WithWorkers(opts.Parallelism)

	if opts.Hidden {
		d = d.WithHidden()
	}

	rootList, err := d.Discover(ctx, l, opts.TerradepsOptions)
	if err != nil {
		return err
	}

	switch opts.Format {
	case options.FormatText:
		return outputText(opts, rootList)
	case options.FormatJSON:
		return outputJSON(opts, rootList)
	case options.FormatTree:
		return outputTree(opts, rootList)
	default:
		// This should never happen, because of validation in the command.
		// If it happens, we want to throw so we can fix the validation.
		return errors.New("invalid format: " + opts.Format)
	}
}

// shouldColor returns true if the output should be colored.
func shouldColor(opts *Options) bool {
	return !opts.NoColor && !stdout.IsRedirected()
}

// Colorizer colors root identities for terminal output.
type Colorizer struct {
	rootColorizer func(string) string
	pathColorizer func(string) string
}

// NewColorizer creates a new Colorizer.
func NewColorizer(shouldColor bool) *Colorizer {
	if !shouldColor {
		return &Colorizer{
			rootColorizer: func(s string) string { return s },
			pathColorizer: func(s string) string { return s },
		}
	}

	return &Colorizer{
		rootColorizer: ansi.ColorFunc("blue+bh"),
		pathColorizer: ansi.ColorFunc("white+d"),
	}
}

// Colorize renders an identity with the directory part dimmed and the root
// directory itself highlighted.
func (c *Colorizer) Colorize(identity string) string {
	dir, base := path.Split(identity)

	if dir == "" {
		return c.rootColorizer(identity)
	}

	return c.pathColorizer(dir) + c.rootColorizer(base)
}

// outputText writes the identities in terminal-width columns when stdout is a
// terminal, and one per line when redirected.
func outputText(opts *Options, rootList discovery.RootList) error {
	identities := rootList.Identities()

	if stdout.IsRedirected() {
		var buf strings.Builder

		for _, identity := range identities {
			buf.WriteString(identity + "\n")
		}

		_, err := opts.Writer.Write([]byte(buf.String()))

		return errors.New(err)
	}

	return renderColumns(opts, identities, NewColorizer(!opts.NoColor))
}

// renderColumns lays the identities out in columns, ls style.
func renderColumns(opts *Options, identities []string, colorizer *Colorizer) error {
	var buf strings.Builder

	maxCols, colWidth := columnLayout(identities)

	for i, identity := range identities {
		if i > 0 && i%maxCols == 0 {
			buf.WriteString("\n")
		}

		buf.WriteString(colorizer.Colorize(identity))

		// Pad up to the column width so the next column aligns.
		padding := colWidth - len(identity)
		for range padding {
			buf.WriteString(" ")
		}
	}

	buf.WriteString("\n")

	_, err := opts.Writer.Write([]byte(buf.String()))

	return errors.New(err)
}

// columnLayout returns how many columns fit in the terminal and their width.
// The width is the longest identity length plus padding.
func columnLayout(identities []string) (int, int) {
	maxCols := 0

	terminalWidth := getTerminalWidth()
	longest := longestIdentityLen(identities)

	const padding = 2

	colWidth := longest + padding

	if longest > 0 {
		maxCols = terminalWidth / colWidth
	}

	if maxCols == 0 {
		maxCols = 1
	}

	return maxCols, colWidth
}

// getTerminalWidth returns the width of the terminal.
func getTerminalWidth() int {
	// Default to 80 if we can't get the terminal width.
	width := 80

	w, _, err := term.GetSize(os.Stdout.Fd())
	if err == nil {
		width = w
	}

	return width
}

func longestIdentityLen(identities []string) int {
	longest := 0

	for _, identity := range identities {
		longest = max(longest, len(identity))
	}

	return longest
}

// outputJSON writes the identities as a sorted JSON array.
func outputJSON(opts *Options, rootList discovery.RootList) error {
	jsonBytes, err := json.MarshalIndent(rootList.Identities(), "", "  ")
	if err != nil {
		return errors.New(err)
	}

	_, err = opts.Writer.Write(append(jsonBytes, '\n'))
	if err != nil {
		return errors.New(err)
	}

	return nil
}

// TreeStyler styles the rendered root tree.
type TreeStyler struct {
	enumeratorStyle lipgloss.Style
	rootStyle       lipgloss.Style
	colorizer       *Colorizer
	shouldColor     bool
}

func NewTreeStyler(shouldColor bool) *TreeStyler {
	return &TreeStyler{
		shouldColor:     shouldColor,
		enumeratorStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginRight(1),
		rootStyle:       lipgloss.NewStyle().Foreground(lipgloss.Color("35")),
		colorizer:       NewColorizer(shouldColor),
	}
}

func (s *TreeStyler) Style(t *tree.Tree) *tree.Tree {
	t = t.Enumerator(tree.RoundedEnumerator)

	if !s.shouldColor {
		return t
	}

	return t.
		EnumeratorStyle(s.enumeratorStyle).
		RootStyle(s.rootStyle)
}

// generateTree arranges the identities into a tree following their path
// segments. Identities always use "/" regardless of platform.
func generateTree(identities []string, s *TreeStyler) *tree.Tree {
	root := tree.Root(".")
	nodes := make(map[string]*tree.Tree)

	for _, identity := range identities {
		if identity == "." {
			continue
		}

		segments := strings.Split(identity, "/")

		currentPath := "."
		currentNode := root

		for i, segment := range segments {
			nextPath := path.Join(currentPath, segment)

			if _, exists := nodes[nextPath]; !exists {
				label := segment
				if i == len(segments)-1 {
					label = s.colorizer.Colorize(segment)
				}

				newNode := tree.New().Root(label)
				nodes[nextPath] = newNode
				currentNode.Child(newNode)
			}

			currentNode = nodes[nextPath]
			currentPath = nextPath
		}
	}

	return root
}

// outputTree writes the identities as a tree rooted at the working directory.
func outputTree(opts *Options, rootList discovery.RootList) error {
	s := NewTreeStyler(shouldColor(opts))

	t := s.Style(generateTree(rootList.Identities(), s))

	_, err := opts.Writer.Write([]byte(t.String() + "\n"))
	if err != nil {
		return errors.New(err)
	}

	return nil
}
