package gridmap

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/ray-pilot/core"
)

// mapFile is the YAML layout for hand-authored maps
//
//	name: arena
//	legend: {"#": 1, "B": 2}
//	rows:
//	  - "#####"
//	  - "#..B#"
//	spawn: [1, 1]
type mapFile struct {
	Name   string         `yaml:"name"`
	Legend map[string]int `yaml:"legend"`
	Rows   []string       `yaml:"rows"`
	Spawn  []int          `yaml:"spawn"`
}

// Layout is a decoded map file
type Layout struct {
	Name  string
	Map   *Map
	Spawn *core.Cell // nil when the file does not pin a spawn cell
}

// LoadYAML reads a map file from disk
func LoadYAML(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map %s: %w", path, err)
	}
	l, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("parse map %s: %w", path, err)
	}
	return l, nil
}

// ParseYAML decodes a map document. Characters absent from the legend are floor,
// except '#' which defaults to material 1.
func ParseYAML(data []byte) (*Layout, error) {
	var f mapFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if len(f.Rows) == 0 {
		return nil, ErrEmptyMap
	}

	legend := make(map[rune]int, len(f.Legend)+1)
	legend['#'] = 1
	for k, v := range f.Legend {
		r := []rune(k)
		if len(r) != 1 {
			return nil, fmt.Errorf("legend key %q must be a single character", k)
		}
		legend[r[0]] = v
	}

	rows := make([][]int, len(f.Rows))
	for y, line := range f.Rows {
		chars := []rune(line)
		rows[y] = make([]int, len(chars))
		for x, ch := range chars {
			rows[y][x] = legend[ch]
		}
	}

	m, err := FromRows(rows)
	if err != nil {
		return nil, err
	}

	l := &Layout{Name: f.Name, Map: m}
	if len(f.Spawn) == 2 {
		c := core.Cell{X: f.Spawn[0], Y: f.Spawn[1]}
		if !m.IsFree(c) {
			return nil, fmt.Errorf("spawn %v is not a free cell", c)
		}
		l.Spawn = &c
	}
	return l, nil
}

// EncodeYAML renders a layout as a map document that ParseYAML reads back.
// Material 1 is '#', materials 2..9 are their digit; higher materials are not encodable.
func EncodeYAML(l *Layout) ([]byte, error) {
	w, h := l.Map.Size()
	f := mapFile{Name: l.Name, Legend: map[string]int{}}
	f.Rows = make([]string, h)
	line := make([]rune, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			mat, wall := l.Map.Material(core.Cell{X: x, Y: y})
			switch {
			case !wall:
				line[x] = '.'
			case mat == 1:
				line[x] = '#'
			case mat <= 9:
				line[x] = rune('0' + mat)
				f.Legend[string(line[x])] = int(mat)
			default:
				return nil, fmt.Errorf("material %d at (%d,%d) has no map character", mat, x, y)
			}
		}
		f.Rows[y] = string(line)
	}
	if l.Spawn != nil {
		f.Spawn = []int{l.Spawn.X, l.Spawn.Y}
	}
	return yaml.Marshal(&f)
}
