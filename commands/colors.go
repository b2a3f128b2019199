package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path"

	fcolor "github.com/fatih/color"
	getopt "github.com/pborman/getopt/v2"

	"github.com/maepreville/psh/core/vos"
)

const (
	colorAlways = "always"
	colorAuto   = "auto"
	colorNever  = "never"
)

var (
	ColorBoldBlue  = fcolor.New(fcolor.FgBlue, fcolor.Bold)
	ColorBoldGreen = fcolor.New(fcolor.FgGreen, fcolor.Bold)
	ColorBoldCyan  = fcolor.New(fcolor.FgCyan, fcolor.Bold)
	ColorBoldRed   = fcolor.New(fcolor.FgRed, fcolor.Bold)
)

// ColorPrinter colorizes output subject to a --color flag and whether the
// process is attached to a PTY.
type ColorPrinter struct {
	value  *string
	virtOS vos.VOS
}

// Init sets up the flag and virtual OS to determine the color output.
func (c *ColorPrinter) Init(flags *getopt.Set, virtOS vos.VOS) {
	c.virtOS = virtOS
	c.value = flags.EnumLong(
		"color",
		rune(0), // No short flag.
		[]string{colorAlways, colorAuto, colorNever},
		colorAuto,
		"colorize the output (always|auto|never)")
}

func (c *ColorPrinter) ShouldColor() bool {
	switch {
	case *c.value == colorNever:
		return false
	case *c.value == colorAlways:
		return true
	default:
		return c.virtOS.GetPTY().IsPTY
	}
}

func (c *ColorPrinter) Sprintf(color *fcolor.Color, format string, a ...interface{}) string {
	if c.ShouldColor() {
		return color.Sprintf(format, a...)
	}
	return fmt.Sprintf(format, a...)
}

type lsColorTest struct {
	color *fcolor.Color
	test  func(fileInfo os.FileInfo) bool
}

// Color listing comes from: https://askubuntu.com/a/884513
var dircolors = []lsColorTest{
	// Directories are bold blue.
	{color: ColorBoldBlue, test: os.FileInfo.IsDir},
	// Symlinks are bold cyan.
	{color: ColorBoldCyan, test: func(fi os.FileInfo) bool {
		return fi.Mode()&fs.ModeSymlink > 0
	}},
	// Executables are bold green.
	{color: ColorBoldGreen, test: func(fi os.FileInfo) bool {
		return fi.Mode().Perm()&0111 > 0
	}},
	// Archives are bold red.
	{color: ColorBoldRed, test: func(fi os.FileInfo) bool {
		return map[string]bool{
			".tar": true,
			".tgz": true,
			".zip": true,
			".gz":  true,
			".bz2": true,
			".jar": true,
			".rar": true,
		}[path.Ext(fi.Name())]
	}},
}

// Dircolor picks the display color for a directory entry.
func Dircolor(fileInfo os.FileInfo) *fcolor.Color {
	for _, dc := range dircolors {
		if dc.test(fileInfo) {
			return dc.color
		}
	}

	// Anything else defaults to white.
	return fcolor.New(fcolor.FgHiWhite)
}
