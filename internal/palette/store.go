package palette

import (
	"fmt"

	"github.com/theirongolddev/msj/internal/kvstore"
)

// Load returns the stored theme, replacing it with VioletRose when it is
// missing or was written by another version.
func Load(store *kvstore.Store) (Vars, error) {
	v, err := kvstore.Load[Vars](store, kvstore.KeyTheme)
	if err != nil {
		return Derive(VioletRose), err
	}
	if v.Version == Version {
		return v, nil
	}

	v = Derive(VioletRose)
	if err := Save(store, v); err != nil {
		return v, err
	}
	return v, nil
}

// Save stores v.
func Save(store *kvstore.Store, v Vars) error {
	if err := kvstore.Save(store, kvstore.KeyTheme, v); err != nil {
		return fmt.Errorf("saving theme: %w", err)
	}
	return nil
}

// Apply derives and stores a theme from s.
func Apply(store *kvstore.Store, s Simple) (Vars, error) {
	v := Derive(s)
	return v, Save(store, v)
}
