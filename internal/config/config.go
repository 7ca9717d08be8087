package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Host     string   `koanf:"host"`
	Listen   string   `koanf:"listen"`
	Database Database `koanf:"db"`
	Calendar Calendar `koanf:"calendar"`
	Viewport Viewport `koanf:"viewport"`
	Cell     Cell     `koanf:"cell"`
	Ics      Ics      `koanf:"ics"`
	Google   Google   `koanf:"google"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

// Calendar describes the extent of the scrollable grid around today.
type Calendar struct {
	// WeekStart is 0 for Sunday through 6 for Saturday.
	WeekStart     int    `koanf:"weekstart"`
	Timezone      string `koanf:"timezone"`
	WeeksBackward int    `koanf:"weeksbackward"`
	WeeksForward  int    `koanf:"weeksforward"`
}

// Viewport configures the scroll window. SessionTtl is how long an idle
// viewport session is kept.
type Viewport struct {
	InitialWeeks int           `koanf:"initialweeks"`
	Buffer       int           `koanf:"buffer"`
	TopInset     int           `koanf:"topinset"`
	SessionTtl   time.Duration `koanf:"sessionttl"`
}

type Cell struct {
	RowHeight  float64       `koanf:"rowheight"`
	Gap        float64       `koanf:"gap"`
	MoreHeight float64       `koanf:"moreheight"`
	HoverPad   float64       `koanf:"hoverpad"`
	HoverDelay time.Duration `koanf:"hoverdelay"`
}

type Ics struct {
	Schedule string        `koanf:"schedule"`
	Timeout  time.Duration `koanf:"timeout"`
	Feeds    []IcsFeed     `koanf:"feeds"`
}

type IcsFeed struct {
	Id  string `koanf:"id"`
	Url string `koanf:"url"`
}

type Google struct {
	Enabled      bool   `koanf:"enabled"`
	ClientId     string `koanf:"clientid"`
	ClientSecret string `koanf:"clientsecret"`
	RefreshToken string `koanf:"refreshtoken"`
	CalendarId   string `koanf:"calendarid"`
	Schedule     string `koanf:"schedule"`
}

// TotalWeeks is the number of weeks the grid spans.
func (c Calendar) TotalWeeks() int {
	return c.WeeksBackward + c.WeeksForward
}

func (c Calendar) WeekStartDay() time.Weekday {
	return time.Weekday(((c.WeekStart % 7) + 7) % 7)
}

// Location resolves Timezone, falling back to the local zone when it is empty
// or unknown.
func (c Calendar) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Warnf("unknown calendar timezone %q, using local: %v", c.Timezone, err)
		return time.Local
	}
	return loc
}

func Defaults() Application {
	return Application{
		Host:   "http://localhost:8181",
		Listen: ":8181",
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "teamcal",
			Pass:   "",
			Name:   "teamcal",
			Schema: "teamcal",
		},
		Calendar: Calendar{
			WeekStart:     0,
			WeeksBackward: 36,
			WeeksForward:  120,
		},
		Viewport: Viewport{
			InitialWeeks: 12,
			Buffer:       6,
			TopInset:     63,
			SessionTtl:   30 * time.Minute,
		},
		Cell: Cell{
			RowHeight:  20,
			Gap:        2,
			MoreHeight: 20,
			HoverPad:   12,
			HoverDelay: 200 * time.Millisecond,
		},
		Ics: Ics{
			Schedule: "@every 30m",
			Timeout:  15 * time.Second,
		},
		Google: Google{
			CalendarId: "primary",
			Schedule:   "@every 15m",
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "TEAMCAL_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "TEAMCAL_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
