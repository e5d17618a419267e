package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"runmap-service/internal/ports"
	"strconv"
)

const (
	KeyLastRun             = "lastRun"
	KeyFollowRoads         = "followRoads"
	KeyUseMetric           = "useMetric"
	KeyMapStyle            = "mapStyle"
	KeyFocus               = "focus"
	KeyHasAcknowledgedHelp = "hasAcknowledgedHelp"
)

var MapStyles = []string{"street-style", "satellite-style", "dark-style"}

const DefaultMapStyle = "street-style"

// Map view to restore on startup.
type Focus struct {
	Lng  float64 `json:"lng"`
	Lat  float64 `json:"lat"`
	Zoom float64 `json:"zoom"`
}

var DefaultFocus = Focus{Lng: -98.5795, Lat: 39.8283, Zoom: 3}

var ErrUnknownMapStyle = errors.New("unknown map style")

// Preferences is a typed view over a PreferenceStore. Reads always go to
// the store; nothing is cached here.
type Preferences struct {
	Store ports.PreferenceStore
}

func NewPreferences(store ports.PreferenceStore) *Preferences {
	return &Preferences{Store: store}
}

func (p *Preferences) GetLastRun(ctx context.Context) (string, bool, error) {
	v, ok, err := p.Store.Get(ctx, KeyLastRun)
	if err != nil {
		return "", false, fmt.Errorf("get last run: %w", err)
	}
	return v, ok, nil
}

func (p *Preferences) SaveLastRun(ctx context.Context, doc []byte) error {
	if err := p.Store.Set(ctx, KeyLastRun, string(doc)); err != nil {
		return fmt.Errorf("save last run: %w", err)
	}
	return nil
}

func (p *Preferences) GetFollowRoads(ctx context.Context) (bool, error) {
	return p.getBool(ctx, KeyFollowRoads, true)
}

func (p *Preferences) SaveFollowRoads(ctx context.Context, v bool) error {
	return p.setBool(ctx, KeyFollowRoads, v)
}

func (p *Preferences) GetUseMetric(ctx context.Context) (bool, error) {
	return p.getBool(ctx, KeyUseMetric, false)
}

func (p *Preferences) SaveUseMetric(ctx context.Context, v bool) error {
	return p.setBool(ctx, KeyUseMetric, v)
}

func (p *Preferences) GetHasAcknowledgedHelp(ctx context.Context) (bool, error) {
	return p.getBool(ctx, KeyHasAcknowledgedHelp, false)
}

func (p *Preferences) SaveHasAcknowledgedHelp(ctx context.Context, v bool) error {
	return p.setBool(ctx, KeyHasAcknowledgedHelp, v)
}

func (p *Preferences) GetMapStyle(ctx context.Context) (string, error) {
	v, ok, err := p.Store.Get(ctx, KeyMapStyle)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", KeyMapStyle, err)
	}
	if !ok || !knownMapStyle(v) {
		return DefaultMapStyle, nil
	}
	return v, nil
}

func (p *Preferences) SaveMapStyle(ctx context.Context, style string) error {
	if !knownMapStyle(style) {
		return fmt.Errorf("save %s: %w: %q", KeyMapStyle, ErrUnknownMapStyle, style)
	}
	if err := p.Store.Set(ctx, KeyMapStyle, style); err != nil {
		return fmt.Errorf("save %s: %w", KeyMapStyle, err)
	}
	return nil
}

// GetFocus returns the last saved map view, or DefaultFocus.
func (p *Preferences) GetFocus(ctx context.Context) (Focus, error) {
	v, ok, err := p.Store.Get(ctx, KeyFocus)
	if err != nil {
		return Focus{}, fmt.Errorf("get %s: %w", KeyFocus, err)
	}
	if !ok {
		return DefaultFocus, nil
	}

	var f Focus
	if err := json.Unmarshal([]byte(v), &f); err != nil {
		log.Printf("pref key=%s unreadable, using default: %v", KeyFocus, err)
		return DefaultFocus, nil
	}
	return f, nil
}

func (p *Preferences) SaveFocus(ctx context.Context, f Focus) error {
	b, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("save %s: %w", KeyFocus, err)
	}
	if err := p.Store.Set(ctx, KeyFocus, string(b)); err != nil {
		return fmt.Errorf("save %s: %w", KeyFocus, err)
	}
	return nil
}

func (p *Preferences) getBool(ctx context.Context, key string, fallback bool) (bool, error) {
	v, ok, err := p.Store.Get(ctx, key)
	if err != nil {
		return fallback, fmt.Errorf("get %s: %w", key, err)
	}
	if !ok {
		return fallback, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("pref key=%s value=%q unreadable, using default", key, v)
		return fallback, nil
	}
	return b, nil
}

func (p *Preferences) setBool(ctx context.Context, key string, v bool) error {
	if err := p.Store.Set(ctx, key, strconv.FormatBool(v)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func knownMapStyle(s string) bool {
	for _, m := range MapStyles {
		if m == s {
			return true
		}
	}
	return false
}
