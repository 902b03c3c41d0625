package config

import (
	"fmt"
	"os"
	"time"

	"github.com/guardian/coverdrop-core/keys"
	"github.com/guardian/coverdrop-core/mixer"
	"gopkg.in/yaml.v3"
)

// validityWindowYAML mirrors keys.ValidityWindow but with duration fields
// expressed as YAML strings ("720h", "2w"-style human durations aren't
// stdlib, so these are plain time.ParseDuration strings), matching the
// topics service's raw_fetch_interval convention.
type validityWindowYAML struct {
	ValidFor       string `yaml:"valid_for"`
	RotateAfterAge string `yaml:"rotate_after_age"`
}

func (w validityWindowYAML) resolve(defaults keys.ValidityWindow) (keys.ValidityWindow, error) {
	out := defaults
	if w.ValidFor != "" {
		d, err := time.ParseDuration(w.ValidFor)
		if err != nil {
			return keys.ValidityWindow{}, fmt.Errorf("config: valid_for: %w", err)
		}
		out.ValidFor = d
	}
	if w.RotateAfterAge != "" {
		d, err := time.ParseDuration(w.RotateAfterAge)
		if err != nil {
			return keys.ValidityWindow{}, fmt.Errorf("config: rotate_after_age: %w", err)
		}
		out.RotateAfterAge = d
	}
	return out, nil
}

type thresholdsYAML struct {
	Min        int    `yaml:"min"`
	Max        int    `yaml:"max"`
	Timeout    string `yaml:"timeout"`
	OutputSize int    `yaml:"output_size"`
}

func (t thresholdsYAML) resolve(defaults mixer.Thresholds) (mixer.Thresholds, error) {
	out := defaults
	if t.Min != 0 {
		out.Min = t.Min
	}
	if t.Max != 0 {
		out.Max = t.Max
	}
	if t.OutputSize != 0 {
		out.OutputSize = t.OutputSize
	}
	if t.Timeout != "" {
		d, err := time.ParseDuration(t.Timeout)
		if err != nil {
			return mixer.Thresholds{}, fmt.Errorf("config: timeout: %w", err)
		}
		out.Timeout = d
	}
	return out, nil
}

// documentYAML is the on-disk shape: every field optional, any field left
// unset falls back to Defaults().
type documentYAML struct {
	ValidityWindows struct {
		Organization           string             `yaml:"organization_valid_for"`
		CoverNodeProvisioning  validityWindowYAML `yaml:"covernode_provisioning"`
		JournalistProvisioning validityWindowYAML `yaml:"journalist_provisioning"`
		CoverNodeIdentity      validityWindowYAML `yaml:"covernode_id"`
		JournalistIdentity     validityWindowYAML `yaml:"journalist_id"`
		CoverNodeMessaging     validityWindowYAML `yaml:"covernode_messaging"`
		JournalistMessaging    validityWindowYAML `yaml:"journalist_messaging"`
	} `yaml:"validity_windows"`
	Mixer struct {
		UserToJournalist thresholdsYAML `yaml:"user_to_journalist"`
		JournalistToUser thresholdsYAML `yaml:"journalist_to_user"`
	} `yaml:"mixer"`
	Vault struct {
		Path string `yaml:"path"`
	} `yaml:"vault"`
}

// ValidityWindows holds the resolved per-role windows referenced by §3.5's
// table. Organization has no rotation window: it is rotated only by a
// manual ceremony (out of scope, §1), so it is represented as a bare
// lifetime rather than a keys.ValidityWindow.
type ValidityWindows struct {
	OrganizationValidFor   time.Duration
	CoverNodeProvisioning  keys.ValidityWindow
	JournalistProvisioning keys.ValidityWindow
	CoverNodeIdentity      keys.ValidityWindow
	JournalistIdentity     keys.ValidityWindow
	CoverNodeMessaging     keys.ValidityWindow
	JournalistMessaging    keys.ValidityWindow
}

// Config is the fully resolved configuration consumed by the rest of the
// module: validity windows for key rotation, per-direction mixer
// thresholds, and the vault's on-disk path.
type Config struct {
	ValidityWindows  ValidityWindows
	UserToJournalist mixer.Thresholds
	JournalistToUser mixer.Thresholds
	VaultPath        string
}

// Defaults returns the compiled-in values matching spec.md §3.5's table:
// Organization years, *Provisioning ~1 year (rotate ~2 months before
// expiry), *Id ~1 month (rotate ~2 weeks before expiry), *Messaging ~2
// weeks (rotate ~1 week before expiry).
func Defaults() Config {
	const day = 24 * time.Hour
	return Config{
		ValidityWindows: ValidityWindows{
			OrganizationValidFor: 5 * 365 * day,
			CoverNodeProvisioning: keys.ValidityWindow{
				ValidFor: 365 * day, RotateAfterAge: 305 * day, // rotate ~60d before expiry
			},
			JournalistProvisioning: keys.ValidityWindow{
				ValidFor: 365 * day, RotateAfterAge: 305 * day,
			},
			CoverNodeIdentity: keys.ValidityWindow{
				ValidFor: 30 * day, RotateAfterAge: 16 * day, // rotate ~14d before expiry
			},
			JournalistIdentity: keys.ValidityWindow{
				ValidFor: 30 * day, RotateAfterAge: 16 * day,
			},
			CoverNodeMessaging: keys.ValidityWindow{
				ValidFor: 14 * day, RotateAfterAge: 7 * day,
			},
			JournalistMessaging: keys.ValidityWindow{
				ValidFor: 14 * day, RotateAfterAge: 7 * day,
			},
		},
		UserToJournalist: mixer.Thresholds{Min: 1, Max: 1000, Timeout: 2 * time.Minute, OutputSize: 10},
		JournalistToUser: mixer.Thresholds{Min: 1, Max: 1000, Timeout: 2 * time.Minute, OutputSize: 10},
		VaultPath:        "",
	}
}

// Load reads a YAML document at path, overlaying it on Defaults(); any
// field the document omits keeps its default. A missing file is not an
// error: it returns Defaults() unchanged, matching the topics service's
// tolerance for an absent/partial config.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var doc documentYAML
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if doc.ValidityWindows.Organization != "" {
		d, err := time.ParseDuration(doc.ValidityWindows.Organization)
		if err != nil {
			return Config{}, fmt.Errorf("config: organization_valid_for: %w", err)
		}
		cfg.ValidityWindows.OrganizationValidFor = d
	}

	resolvers := []struct {
		name string
		src  validityWindowYAML
		dst  *keys.ValidityWindow
	}{
		{"covernode_provisioning", doc.ValidityWindows.CoverNodeProvisioning, &cfg.ValidityWindows.CoverNodeProvisioning},
		{"journalist_provisioning", doc.ValidityWindows.JournalistProvisioning, &cfg.ValidityWindows.JournalistProvisioning},
		{"covernode_id", doc.ValidityWindows.CoverNodeIdentity, &cfg.ValidityWindows.CoverNodeIdentity},
		{"journalist_id", doc.ValidityWindows.JournalistIdentity, &cfg.ValidityWindows.JournalistIdentity},
		{"covernode_messaging", doc.ValidityWindows.CoverNodeMessaging, &cfg.ValidityWindows.CoverNodeMessaging},
		{"journalist_messaging", doc.ValidityWindows.JournalistMessaging, &cfg.ValidityWindows.JournalistMessaging},
	}
	for _, r := range resolvers {
		resolved, err := r.src.resolve(*r.dst)
		if err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", r.name, err)
		}
		*r.dst = resolved
	}

	u2j, err := doc.Mixer.UserToJournalist.resolve(cfg.UserToJournalist)
	if err != nil {
		return Config{}, fmt.Errorf("config: user_to_journalist: %w", err)
	}
	cfg.UserToJournalist = u2j

	j2u, err := doc.Mixer.JournalistToUser.resolve(cfg.JournalistToUser)
	if err != nil {
		return Config{}, fmt.Errorf("config: journalist_to_user: %w", err)
	}
	cfg.JournalistToUser = j2u

	if doc.Vault.Path != "" {
		cfg.VaultPath = doc.Vault.Path
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the relative invariants spec.md §3.5 calls out: each
// role's rotate-after age must be strictly less than its validity, and
// descendant roles (*Id, *Messaging) must not outlive their provisioning
// parent.
func (c Config) Validate() error {
	windows := []struct {
		name string
		w    keys.ValidityWindow
	}{
		{"covernode_provisioning", c.ValidityWindows.CoverNodeProvisioning},
		{"journalist_provisioning", c.ValidityWindows.JournalistProvisioning},
		{"covernode_id", c.ValidityWindows.CoverNodeIdentity},
		{"journalist_id", c.ValidityWindows.JournalistIdentity},
		{"covernode_messaging", c.ValidityWindows.CoverNodeMessaging},
		{"journalist_messaging", c.ValidityWindows.JournalistMessaging},
	}
	for _, w := range windows {
		if err := w.w.Validate(); err != nil {
			return fmt.Errorf("config: %s: %w", w.name, err)
		}
	}
	if c.ValidityWindows.CoverNodeIdentity.ValidFor > c.ValidityWindows.CoverNodeProvisioning.ValidFor {
		return fmt.Errorf("config: covernode_id must not outlive covernode_provisioning")
	}
	if c.ValidityWindows.JournalistIdentity.ValidFor > c.ValidityWindows.JournalistProvisioning.ValidFor {
		return fmt.Errorf("config: journalist_id must not outlive journalist_provisioning")
	}
	if c.ValidityWindows.CoverNodeMessaging.ValidFor > c.ValidityWindows.CoverNodeIdentity.ValidFor {
		return fmt.Errorf("config: covernode_messaging must not outlive covernode_id")
	}
	if c.ValidityWindows.JournalistMessaging.ValidFor > c.ValidityWindows.JournalistIdentity.ValidFor {
		return fmt.Errorf("config: journalist_messaging must not outlive journalist_id")
	}
	return nil
}
