package commands

import (
	"fmt"
	"io/fs"
	"math"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/maepreville/psh/core/vos"
)

// Ls implements the UNIX ls command.
func Ls(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "ls [OPTION]... [FILE]...",
		Short: "List information about the FILEs (the current directory by default).",
	}

	opts := cmd.Flags()
	listAll := opts.Bool('a', "don't ignore entries starting with .")
	longListing := opts.Bool('l', "use a long listing format")
	humanSize := opts.BoolLong("human-readable", 'h', "print human readable sizes")
	lineWidth := opts.IntLong("width", 'w', virtOS.GetPTY().Width, "set the column width, 0 is infinite")
	cmd.ShowHelp = opts.BoolLong("help", '?', "show help and exit")

	var color ColorPrinter
	color.Init(opts, virtOS)

	return cmd.Run(virtOS, func() int {
		directoriesToList := opts.Args()
		if len(directoriesToList) == 0 {
			directoriesToList = append(directoriesToList, ".")
		}
		sort.Strings(directoriesToList)

		showDirectoryNames := len(directoriesToList) > 1

		sizeFmt := func(bytes int64) string {
			return fmt.Sprintf("%d", bytes)
		}
		if *humanSize {
			sizeFmt = BytesToHuman
		}

		if *lineWidth == 0 {
			*lineWidth = math.MaxInt32
		}

		owner := virtOS.Getenv("USER")
		if owner == "" {
			owner = "user"
		}

		exitCode := 0

		for _, directory := range directoriesToList {
			file, err := virtOS.Open(directory)
			if err != nil {
				fmt.Fprintf(virtOS.Stderr(), "%s: %v\n", directory, err)
				exitCode = 1
				continue
			}

			allPaths, err := file.Readdir(-1)
			file.Close()
			if err != nil {
				fmt.Fprintf(virtOS.Stderr(), "%s: %v\n", directory, err)
				exitCode = 1
				continue
			}

			var totalSize int64
			var paths []os.FileInfo
			for _, path := range allPaths {
				if !*listAll && strings.HasPrefix(path.Name(), ".") {
					continue
				}
				paths = append(paths, path)
				totalSize += path.Size()
			}

			sort.Slice(paths, func(i int, j int) bool {
				return paths[i].Name() < paths[j].Name()
			})

			if showDirectoryNames {
				fmt.Fprintf(virtOS.Stdout(), "%s:\n", directory)
			}

			if *longListing {
				fmt.Fprintf(virtOS.Stdout(), "total %d\n", totalSize)
				tw := tabwriter.NewWriter(virtOS.Stdout(), 0, 0, 1, ' ', 0)
				for _, f := range paths {
					hardLinks := 1
					if f.IsDir() {
						hardLinks = 2
					}

					// Include time if current year.
					currentYear := time.Now().Year()
					modTime := f.ModTime().Format("Jan _2 2006")
					if f.ModTime().Year() >= currentYear {
						modTime = f.ModTime().Format("Jan _2 15:04")
					}

					fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
						f.Mode().String(),
						hardLinks,
						owner,
						owner,
						sizeFmt(f.Size()),
						modTime,
						color.Sprintf(Dircolor(f), "%s", f.Name()))
				}
				tw.Flush()
			} else {
				colWidths := columnize(paths, *lineWidth)
				cols := len(colWidths)
				rows := len(paths) / cols
				if len(paths)%cols > 0 {
					rows++
				}

				tw := virtOS.Stdout()
				for row := 0; row < rows; row++ {
					for col, width := range colWidths {
						if col > 0 {
							fmt.Fprint(tw, "  ")
						}
						// Find and print the file entry.
						if index := (col * rows) + row; index < len(paths) {
							entry := paths[index]
							name := entry.Name()
							width -= len(name)
							fmt.Fprint(tw, color.Sprintf(Dircolor(entry), "%s", name))
						}
						// Add padding for alignment.
						if width > 0 {
							fmt.Fprint(tw, strings.Repeat(" ", width))
						}
					}
					fmt.Fprintln(tw)
				}
			}
		}

		return exitCode
	})
}

func columnize(paths []fs.FileInfo, screenWidth int) []int {
	numFiles := len(paths)
	if numFiles == 0 {
		return []int{0}
	}

	const colPadding = 2

	// Size of the display of the file name, actual length may vary if there
	// are escape sequences to format it.
	displayLengths := make([]int, len(paths))
	for i, p := range paths {
		displayLengths[i] = len(p.Name())
	}

	// Start with maximum number of columns and work down until all the data
	// fits. 3 is the minimum column width, 1 char filename + 2 padding.
	columns := screenWidth / (1 + colPadding)
	if columns > len(paths) {
		columns = len(paths)
	}
	var maximums []int // Holds maximum size of a name in the column.
	for ; columns >= 1; columns-- {
		maximums = make([]int, columns)
		total := (columns - 1) * colPadding
		rows := (numFiles / columns) + 1
		for i, nameLen := range displayLengths {
			prevMax := maximums[i/rows]
			if nameLen > prevMax {
				maximums[i/rows] = nameLen
				total = total - prevMax + nameLen
				if total > screenWidth {
					break
				}
			}
		}

		if total <= screenWidth {
			return maximums
		}
	}

	return maximums
}

var _ vos.ProcessFunc = Ls

func init() {
	mustAddCmd(Ls, "ls")
}
