// Package featureflags evaluates simple key=value feature flags from config.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// flagValue is a parsed flag: either a hard on/off or a percentage rollout.
type flagValue struct {
	on      bool
	percent int
	rollout bool
}

// Manager evaluates feature flags defined in a comma-separated key=value list.
// Example: "live_events=on,tag_admin=off,new_feed=25%"
type Manager struct {
	flags map[string]flagValue
}

// NewManager creates a feature-flag manager from a comma-separated config string.
// Malformed pairs are skipped.
func NewManager(raw string) *Manager {
	out := make(map[string]flagValue)

	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := normalize(parts[0])
		value := normalize(parts[1])
		if key == "" || value == "" {
			continue
		}

		switch value {
		case "on", "true", "1":
			out[key] = flagValue{on: true}
		case "off", "false", "0":
			out[key] = flagValue{}
		default:
			if pct, ok := parsePercent(value); ok {
				out[key] = flagValue{percent: pct, rollout: true}
			}
		}
	}

	return &Manager{flags: out}
}

// Enabled returns whether a flag is enabled for a given user. Percentage
// rollouts are deterministic per (flag, user); unknown flags are off.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}

	value, ok := m.flags[normalize(name)]
	if !ok {
		return false
	}
	if !value.rollout {
		return value.on
	}

	if value.percent <= 0 {
		return false
	}
	if value.percent >= 100 {
		return true
	}
	if userID == 0 {
		return false
	}
	return rolloutBucket(name, userID) < value.percent
}

// Snapshot returns evaluated flag status for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.flags))
	for name := range m.flags {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func parsePercent(value string) (int, bool) {
	if !strings.HasSuffix(value, "%") {
		return 0, false
	}
	pct, err := strconv.Atoi(strings.TrimSuffix(value, "%"))
	if err != nil {
		return 0, false
	}
	return pct, true
}

func rolloutBucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%d", normalize(name), userID)))
	return int(h.Sum32() % 100)
}
