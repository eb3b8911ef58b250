package internal

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const roomCacheVersion = "1.0"

// RoomCache keeps the last room listing on disk so repeated list-rooms calls skip the API
type RoomCache struct {
	path string
	now  func() time.Time
}

// RoomCacheMetadata describes when and for whom a listing was cached
type RoomCacheMetadata struct {
	Owner        string    `yaml:"owner"` // token fingerprint, never the token itself
	CacheVersion string    `yaml:"cache_version"`
	UpdatedAt    time.Time `yaml:"updated_at"`
}

// RoomIndex is the YAML document stored by RoomCache
type RoomIndex struct {
	Rooms    []Room            `yaml:"rooms"`
	Metadata RoomCacheMetadata `yaml:"metadata"`
}

// NewRoomCache creates a cache stored at path
func NewRoomCache(path string) *RoomCache {
	return &RoomCache{path: path, now: time.Now}
}

// Path returns the cache file location
func (rc *RoomCache) Path() string {
	return rc.path
}

// TokenFingerprint identifies a token without storing it
func TokenFingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])[:16]
}

// Load returns the cached rooms when the cache belongs to owner and is younger than ttl.
// The boolean is false when there is no usable cache.
func (rc *RoomCache) Load(owner string, ttl time.Duration) ([]Room, bool, error) {
	index, err := rc.LoadIndex()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	if index.Metadata.CacheVersion != roomCacheVersion || index.Metadata.Owner != owner {
		return nil, false, nil
	}
	if ttl > 0 && rc.now().Sub(index.Metadata.UpdatedAt) > ttl {
		LogDebug("Room cache expired (updated %s)", index.Metadata.UpdatedAt.Format(time.RFC3339))
		return nil, false, nil
	}

	return index.Rooms, true, nil
}

// LoadIndex reads the cache file
func (rc *RoomCache) LoadIndex() (*RoomIndex, error) {
	data, err := os.ReadFile(rc.path)
	if err != nil {
		return nil, err
	}

	var index RoomIndex
	if err := yaml.Unmarshal(data, &index); err != nil {
		return nil, &ParseError{Source: "cache", Key: rc.path, Err: err}
	}
	return &index, nil
}

// Save replaces the cached listing
func (rc *RoomCache) Save(owner string, rooms []Room) error {
	if err := os.MkdirAll(filepath.Dir(rc.path), 0755); err != nil {
		return &StorageError{Path: rc.path, Op: "mkdir", Err: err}
	}

	index := RoomIndex{
		Rooms: rooms,
		Metadata: RoomCacheMetadata{
			Owner:        owner,
			CacheVersion: roomCacheVersion,
			UpdatedAt:    rc.now(),
		},
	}

	data, err := yaml.Marshal(&index)
	if err != nil {
		return fmt.Errorf("failed to marshal room cache: %w", err)
	}
	if err := os.WriteFile(rc.path, data, 0644); err != nil {
		return &StorageError{Path: rc.path, Op: "write", Err: err}
	}
	return nil
}

// Clear removes the cache file
func (rc *RoomCache) Clear() error {
	if err := os.Remove(rc.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
