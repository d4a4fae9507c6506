package storage

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v3"
)

const playerPrefix = "player:"

// badgerPlayerRepo хранит состояние игроков в той же базе, что и мир
type badgerPlayerRepo struct {
	ws *WorldStorage
}

// Players возвращает репозиторий игроков поверх хранилища мира
func (ws *WorldStorage) Players() PlayerRepo {
	return &badgerPlayerRepo{ws: ws}
}

func playerKey(name string) []byte {
	return []byte(playerPrefix + name)
}

func (r *badgerPlayerRepo) Save(ctx context.Context, name string, st PlayerState) error {
	if err := checkRequest(ctx, name); err != nil {
		return err
	}

	r.ws.mutex.RLock()
	defer r.ws.mutex.RUnlock()
	if !r.ws.isReady {
		return ErrNotReady
	}

	if err := r.ws.put(playerKey(name), st); err != nil {
		return fmt.Errorf("ошибка сохранения игрока %s: %w", name, err)
	}
	return nil
}

func (r *badgerPlayerRepo) Load(ctx context.Context, name string) (PlayerState, bool, error) {
	if err := checkRequest(ctx, name); err != nil {
		return PlayerState{}, false, err
	}

	r.ws.mutex.RLock()
	defer r.ws.mutex.RUnlock()
	if !r.ws.isReady {
		return PlayerState{}, false, ErrNotReady
	}

	var st PlayerState
	found, err := r.ws.get(playerKey(name), &st)
	if err != nil {
		return PlayerState{}, false, fmt.Errorf("ошибка чтения игрока %s: %w", name, err)
	}
	return st, found, nil
}

func (r *badgerPlayerRepo) Delete(ctx context.Context, name string) error {
	if err := checkRequest(ctx, name); err != nil {
		return err
	}

	r.ws.mutex.RLock()
	defer r.ws.mutex.RUnlock()
	if !r.ws.isReady {
		return ErrNotReady
	}

	return r.ws.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(playerKey(name))
	})
}
