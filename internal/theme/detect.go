package theme

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/ini.v1"
)

var (
	hex6 = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	hex3 = regexp.MustCompile(`^#[0-9a-fA-F]{3}$`)
)

// Detect loads the palette for the current user.
// Sources are tried in order: Omarchy, Alacritty, Foot. MEDIA_SHUTTLE_*
// environment variables override whatever was found.
func Detect() Palette {
	home, err := os.UserHomeDir()
	if err != nil {
		return applyEnvOverrides(DefaultPalette())
	}
	return applyEnvOverrides(detectIn(home))
}

func detectIn(home string) Palette {
	sources := []func() (Palette, bool){
		func() (Palette, bool) {
			return parseAlacritty(filepath.Join(home, ".config", "omarchy", "current", "theme", "alacritty.toml"))
		},
		func() (Palette, bool) {
			return parseAlacritty(filepath.Join(home, ".config", "alacritty", "alacritty.toml"))
		},
		func() (Palette, bool) {
			return parseAlacritty(filepath.Join(home, ".alacritty.toml"))
		},
		func() (Palette, bool) {
			return parseFoot(filepath.Join(home, ".config", "foot", "foot.ini"))
		},
	}
	for _, src := range sources {
		if p, ok := src(); ok {
			return p
		}
	}
	return DefaultPalette()
}

type alacrittyColors struct {
	Colors struct {
		Primary struct {
			Background string `toml:"background"`
			Foreground string `toml:"foreground"`
		} `toml:"primary"`
		Selection struct {
			Background string `toml:"background"`
		} `toml:"selection"`
		Normal struct {
			Red    string `toml:"red"`
			Yellow string `toml:"yellow"`
			Cyan   string `toml:"cyan"`
		} `toml:"normal"`
	} `toml:"colors"`
}

func parseAlacritty(path string) (Palette, bool) {
	var cfg alacrittyColors
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Palette{}, false
	}
	c := cfg.Colors
	if c.Primary.Background == "" || c.Primary.Foreground == "" {
		return Palette{}, false
	}
	return derive(c.Primary.Background, c.Primary.Foreground, c.Selection.Background, c.Normal.Cyan, c.Normal.Yellow, c.Normal.Red), true
}

func parseFoot(path string) (Palette, bool) {
	cfg, err := ini.Load(path)
	if err != nil {
		return Palette{}, false
	}
	colors := cfg.Section("colors")
	bg := colors.Key("background").String()
	fg := colors.Key("foreground").String()
	if bg == "" || fg == "" {
		return Palette{}, false
	}
	// foot numbers its palette: regular1 red, regular3 yellow, regular6 cyan
	return derive(bg, fg,
		colors.Key("selection-background").String(),
		colors.Key("regular6").String(),
		colors.Key("regular3").String(),
		colors.Key("regular1").String(),
	), true
}

// derive fills a palette from the primary colors, falling back to the
// defaults for any optional color left empty.
func derive(bg, fg, selection, accent, warning, errColor string) Palette {
	p := DefaultPalette()
	p.BG = normalizeHex(bg)
	p.FG = normalizeHex(fg)
	p.Muted = mix(p.BG, p.FG, 0.5)
	p.AccentBg = mix(p.BG, p.FG, 0.15)
	if selection != "" {
		p.AccentBg = normalizeHex(selection)
	}
	if accent != "" {
		p.Accent = normalizeHex(accent)
	}
	if warning != "" {
		p.Warning = normalizeHex(warning)
	}
	if errColor != "" {
		p.Error = normalizeHex(errColor)
	}
	return p
}

func applyEnvOverrides(p Palette) Palette {
	for env, field := range map[string]*string{
		"MEDIA_SHUTTLE_BG":     &p.BG,
		"MEDIA_SHUTTLE_FG":     &p.FG,
		"MEDIA_SHUTTLE_MUTED":  &p.Muted,
		"MEDIA_SHUTTLE_ACCENT": &p.Accent,
	} {
		if v := os.Getenv(env); v != "" {
			*field = normalizeHex(v)
		}
	}
	return p
}

// normalizeHex turns 0xRRGGBB, RRGGBB and #RGB into #rrggbb. Anything else
// is returned trimmed but otherwise untouched.
func normalizeHex(color string) string {
	color = strings.TrimSpace(color)
	if strings.HasPrefix(color, "0x") || strings.HasPrefix(color, "0X") {
		color = color[2:]
	}
	if !strings.HasPrefix(color, "#") {
		color = "#" + color
	}
	switch {
	case hex6.MatchString(color):
		return strings.ToLower(color)
	case hex3.MatchString(color):
		r, g, b := color[1:2], color[2:3], color[3:4]
		return strings.ToLower("#" + r + r + g + g + b + b)
	}
	return color
}

// mix blends a toward b by t.
func mix(a, b string, t float64) string {
	ra, ga, ba, ok1 := rgb(a)
	rb, gb, bb, ok2 := rgb(b)
	if !ok1 || !ok2 {
		return a
	}
	blend := func(x, y uint8) uint8 {
		return uint8(float64(x)*(1-t) + float64(y)*t)
	}
	return toHex(blend(ra, rb), blend(ga, gb), blend(ba, bb))
}

func rgb(hex string) (r, g, b uint8, ok bool) {
	hex = normalizeHex(hex)
	if !hex6.MatchString(hex) {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

func toHex(r, g, b uint8) string {
	return "#" + strconv.FormatUint(uint64(1)<<24|uint64(r)<<16|uint64(g)<<8|uint64(b), 16)[1:]
}
