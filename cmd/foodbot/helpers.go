package foodbot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Pablo-o-plomo/food-ai-bot/internal/config"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/store"
	_ "github.com/Pablo-o-plomo/food-ai-bot/internal/store/jsonstore"
	_ "github.com/Pablo-o-plomo/food-ai-bot/internal/store/sqlitestore"
)

// withStore opens the configured backend, runs fn, and closes it. Flags
// win over .env/environment values.
func withStore(run func(store.Store) error) error {
	cfg := config.Load()
	b := cfg.Backend
	if backend != "" {
		b = backend
	}
	path := cfg.DataPath
	if dataPath != "" {
		path = dataPath
	}
	st, err := store.Open(b, path)
	if err != nil {
		return err
	}
	defer st.Close()
	return run(st)
}

func parseUserID(value string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid user id %q", value)
	}
	return v, nil
}
