package app

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"
)

const (
	ImagePNG  = "png"
	ImageJPEG = "jpeg"
)

type ImageFormat string

type Config struct {
	DBPath     string
	RunID      int64
	OutputFile string
	Format     ImageFormat
	FontPath   string
	Series     string
	StartTime  *time.Time
	EndTime    *time.Time
	Width      int
	Height     int
}

var validImageFormats = map[ImageFormat]struct{}{
	ImagePNG:  {},
	ImageJPEG: {},
}

func NewConfig() *Config {
	return &Config{
		Format: ImagePNG,
		Series: "significant_wave_height",
		Width:  1200,
		Height: 600,
	}
}

func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	var imageFormat, startTime, endTime string
	flag.StringVar(&c.DBPath, "db", "", "Path to the database file")
	flag.Int64Var(&c.RunID, "r", 1, "Run ID")
	flag.StringVar(&c.OutputFile, "o", "", "Path to the output file")
	flag.StringVar(&imageFormat, "f", string(ImagePNG), "Output image format. [png, jpeg]")
	flag.StringVar(&c.FontPath, "font", "", "Path to a TTF font file for annotations")
	flag.StringVar(&c.Series, "series", c.Series, "Statistic to plot. See the wave_stats table columns")
	flag.StringVar(&startTime, "start", "", "Only plot bursts starting at or after this time (RFC 3339)")
	flag.StringVar(&endTime, "end", "", "Only plot bursts starting at or before this time (RFC 3339)")
	flag.IntVar(&c.Width, "w", c.Width, "Image width in pixels")
	flag.IntVar(&c.Height, "h", c.Height, "Image height in pixels")
	flag.Parse()

	imageFormat = strings.ToLower(imageFormat)

	var err error
	if c.DBPath == "" {
		err = errors.New("db path is required")
	} else if c.RunID <= 0 {
		err = errors.New("run id is required")
	} else if c.OutputFile == "" {
		err = errors.New("output file is required")
	} else if c.FontPath == "" {
		err = errors.New("font path is required")
	} else if _, ok := validImageFormats[ImageFormat(imageFormat)]; !ok {
		err = fmt.Errorf("invalid image format: %s", imageFormat)
	} else if _, ok := seriesSpecs[c.Series]; !ok {
		err = fmt.Errorf("unknown series: %s", c.Series)
	}

	if err == nil && startTime != "" {
		var t time.Time
		if t, err = time.Parse(time.RFC3339, startTime); err == nil {
			c.StartTime = &t
		}
	}
	if err == nil && endTime != "" {
		var t time.Time
		if t, err = time.Parse(time.RFC3339, endTime); err == nil {
			c.EndTime = &t
		}
	}

	if err != nil {
		flag.Usage()
		return nil, err
	}

	c.Format = ImageFormat(imageFormat)
	c.OutputFile = fmt.Sprintf("%s.%s", c.OutputFile, c.Format)
	return c, nil
}
