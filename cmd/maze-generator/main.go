// Command maze-generator previews maze and dungeon layouts and saves them as map files.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lixenwraith/ray-pilot/core"
	"github.com/lixenwraith/ray-pilot/gridmap"
	"github.com/lixenwraith/ray-pilot/maze"
)

func main() {
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Println("\n=== RAY-PILOT MAP GENERATOR ===")

		kind := getString(reader, "Kind [maze/dungeon] (default maze): ", "maze")
		w := getInt(reader, "Width [Odd prefered] (default 35): ", 35)
		h := getInt(reader, "Height [Odd prefered] (default 19): ", 19)
		seed := uint64(getInt(reader, "Seed [0 = clock] (default 0): ", 0))
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}

		var (
			grid  [][]bool
			start *core.Cell
			path  []core.Cell
		)

		startT := time.Now()
		if kind == "dungeon" {
			coverage := getFloat(reader, "Coverage [0.0 - 1.0] (default 0.45): ", 0.45)
			grid = maze.Dungeon(maze.DefaultDungeon(w, h, coverage, seed))
		} else {
			braid := getFloat(reader, "Braiding Factor [0.0 - 1.0] (default 0.2): ", 0.2)
			res := maze.Generate(maze.Config{Width: w, Height: h, Braiding: braid, Seed: seed})
			grid, path = res.Grid, res.SolutionPath
			start = &res.Start
		}
		dur := time.Since(startT)

		fmt.Printf("Done in %v\n", dur)
		fmt.Printf("Grid Dimensions: %dx%d\n", len(grid[0]), len(grid))
		if path != nil {
			fmt.Printf("Solution Path Length: %d steps\n", len(path))
		}

		draw(grid, path)

		out := getString(reader, "\nSave as map file (empty = skip): ", "")
		if out != "" {
			if err := save(out, grid, seed, start); err != nil {
				fmt.Fprintf(os.Stderr, "save failed: %v\n", err)
			} else {
				fmt.Printf("Saved %s\n", out)
			}
		}

		if strings.ToLower(getString(reader, "Generate another? [Y/n]: ", "y")) == "n" {
			break
		}
	}
}

func save(path string, grid [][]bool, seed uint64, spawn *core.Cell) error {
	m, err := maze.ToMap(grid, seed)
	if err != nil {
		return err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	data, err := gridmap.EncodeYAML(&gridmap.Layout{Name: name, Map: m, Spawn: spawn})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func draw(grid [][]bool, path []core.Cell) {
	onPath := make(map[core.Cell]bool, len(path))
	for _, p := range path {
		onPath[p] = true
	}

	var sb strings.Builder
	for y, row := range grid {
		for x, isWall := range row {
			switch {
			case isWall:
				sb.WriteString("█")
			case onPath[core.Cell{X: x, Y: y}]:
				sb.WriteString("•")
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	fmt.Print(sb.String())
}

// --- Input Helpers ---

func getString(r *bufio.Reader, prompt, def string) string {
	fmt.Print(prompt)
	s, _ := r.ReadString('\n')
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}

func getInt(r *bufio.Reader, prompt string, def int) int {
	v, err := strconv.Atoi(getString(r, prompt, ""))
	if err != nil {
		return def
	}
	return v
}

func getFloat(r *bufio.Reader, prompt string, def float64) float64 {
	v, err := strconv.ParseFloat(getString(r, prompt, ""), 64)
	if err != nil {
		return def
	}
	return min(max(v, 0), 1)
}
