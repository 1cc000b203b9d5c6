package app

import (
	"errors"
	"flag"
	"fmt"
	"strings"
)

const (
	ImagePNG  = "png"
	ImageJPEG = "jpeg"
)

type ImageFormat string

type Config struct {
	DBPath     string
	DeviceID   string
	Days       int
	OutputFile string
	Format     ImageFormat
	FontFile   string
	Verbose    bool
}

var validImageFormats = map[ImageFormat]struct{}{
	ImagePNG:  {},
	ImageJPEG: {},
}

func NewConfig() *Config {
	return &Config{
		Format: ImagePNG,
		Days:   7,
	}
}

func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	var imageFormat string
	flag.StringVar(&c.DBPath, "db", "", "Path to the collector database file")
	flag.StringVar(&c.DeviceID, "device", "", "Device ID to report on")
	flag.IntVar(&c.Days, "days", 7, "Trailing period to report on, in days")
	flag.StringVar(&c.OutputFile, "o", "", "Path to the output file")
	flag.StringVar(&imageFormat, "f", string(ImagePNG), "Output image format. [png, jpeg]")
	flag.StringVar(&c.FontFile, "font", "", "TTF font file for labels (labels are omitted without one)")
	flag.BoolVar(&c.Verbose, "verbose", false, "Enable more verbose output")
	flag.Parse()

	imageFormat = strings.ToLower(imageFormat)

	var err error
	if c.DBPath == "" {
		err = errors.New("db path is required")
	} else if c.DeviceID == "" {
		err = errors.New("device id is required")
	} else if c.Days <= 0 {
		err = errors.New("days must be positive")
	} else if c.OutputFile == "" {
		err = errors.New("output file is required")
	} else if _, ok := validImageFormats[ImageFormat(imageFormat)]; !ok {
		err = fmt.Errorf("invalid image format: %s", imageFormat)
	}

	if err != nil {
		flag.Usage()
		return nil, err
	}

	c.Format = ImageFormat(imageFormat)
	return c, nil
}
