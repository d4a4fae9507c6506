package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/klauspost/compress/zstd"

	"github.com/ragamuffin/voxelcore/internal/logging"
	"github.com/ragamuffin/voxelcore/internal/vec"
	"github.com/ragamuffin/voxelcore/internal/world"
	"github.com/ragamuffin/voxelcore/internal/world/block"
)

// ErrNotReady возвращается при обращении к закрытому хранилищу
var ErrNotReady = errors.New("хранилище не готово")

const (
	chunkPrefix = "chunk:"
	itemsKey    = "items"
)

// WorldStorage сохраняет изменения игрока в BadgerDB.
// Генерируемая часть мира не хранится: она восстанавливается из сида.
type WorldStorage struct {
	db      *badger.DB
	dbPath  string
	mutex   sync.RWMutex
	isReady bool

	encoder *zstd.Encoder
	decoder *zstd.Decoder
	log     *logging.Logger
}

// ChunkDelta содержит изменённые игроком клетки одного чанка
type ChunkDelta struct {
	Coords vec.Vec3    `json:"coords"`
	Cells  []CellDelta `json:"cells"`
}

// CellDelta описывает состояние одной клетки. Тип хранится по имени, чтобы сохранения
// переживали перенумерацию блоков.
type CellDelta struct {
	X            int    `json:"x"`
	Y            int    `json:"y"`
	Z            int    `json:"z"`
	Block        string `json:"block"`
	PlayerPlaced bool   `json:"player,omitempty"`
}

// ItemsSnapshot содержит мелкие предметы и мебель мира
type ItemsSnapshot struct {
	SmallItems []world.SmallItem     `json:"small_items"`
	Props      []world.PropPlacement `json:"props"`
}

// NewWorldStorage открывает хранилище в каталоге dataPath/world
func NewWorldStorage(dataPath string) (*WorldStorage, error) {
	dbPath := filepath.Join(dataPath, "world")
	return open(badger.DefaultOptions(dbPath), dbPath)
}

// NewInMemoryWorldStorage создаёт хранилище без записи на диск
func NewInMemoryWorldStorage() (*WorldStorage, error) {
	return open(badger.DefaultOptions("").WithInMemory(true), "")
}

func open(opts badger.Options, dbPath string) (*WorldStorage, error) {
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось создать zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		db.Close()
		return nil, fmt.Errorf("не удалось создать zstd decoder: %w", err)
	}

	return &WorldStorage{
		db:      db,
		dbPath:  dbPath,
		isReady: true,
		encoder: encoder,
		decoder: decoder,
		log:     logging.GetStorageLogger(),
	}, nil
}

// Close закрывает хранилище данных
func (ws *WorldStorage) Close() error {
	ws.mutex.Lock()
	defer ws.mutex.Unlock()

	if !ws.isReady {
		return nil
	}

	ws.isReady = false
	ws.decoder.Close()
	ws.encoder.Close()
	return ws.db.Close()
}

func chunkKey(coords vec.Vec3) []byte {
	return []byte(fmt.Sprintf("%s%d:%d:%d", chunkPrefix, coords.X, coords.Y, coords.Z))
}

// SaveChunk дописывает изменения чанка к сохранённой дельте и сбрасывает их в мире
func (ws *WorldStorage) SaveChunk(w *world.World, coords vec.Vec3) error {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return ErrNotReady
	}

	changes := w.ChunkChanges(coords)
	if len(changes) == 0 {
		return nil
	}

	existing, err := ws.loadChunk(coords)
	if err != nil {
		return err
	}

	// Новое состояние клетки заменяет старое
	merged := make(map[vec.Vec3]CellDelta, len(existing.Cells)+len(changes))
	for _, c := range existing.Cells {
		merged[vec.Vec3{X: c.X, Y: c.Y, Z: c.Z}] = c
	}
	for _, ch := range changes {
		merged[ch.Pos] = CellDelta{
			X:            ch.Pos.X,
			Y:            ch.Pos.Y,
			Z:            ch.Pos.Z,
			Block:        ch.Type.String(),
			PlayerPlaced: ch.PlayerPlaced,
		}
	}

	delta := ChunkDelta{Coords: coords, Cells: make([]CellDelta, 0, len(merged))}
	for _, c := range merged {
		delta.Cells = append(delta.Cells, c)
	}
	sort.Slice(delta.Cells, func(i, j int) bool {
		a, b := delta.Cells[i], delta.Cells[j]
		return vec.Vec3{X: a.X, Y: a.Y, Z: a.Z}.Less(vec.Vec3{X: b.X, Y: b.Y, Z: b.Z})
	})

	if err := ws.put(chunkKey(coords), delta); err != nil {
		return fmt.Errorf("ошибка сохранения чанка %v: %w", coords, err)
	}

	w.MarkChunkSaved(coords)
	return nil
}

// SaveDirtyChunks сохраняет все чанки с изменениями игрока и возвращает их количество
func (ws *WorldStorage) SaveDirtyChunks(w *world.World) (int, error) {
	saved := 0
	for _, coords := range w.DirtyChunks() {
		if err := ws.SaveChunk(w, coords); err != nil {
			return saved, err
		}
		saved++
	}
	if saved > 0 {
		ws.log.Debug("сохранено чанков: %d", saved)
	}
	return saved, nil
}

// LoadChunk загружает дельту чанка; для несохранённого чанка возвращается пустая дельта
func (ws *WorldStorage) LoadChunk(coords vec.Vec3) (*ChunkDelta, error) {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return nil, ErrNotReady
	}
	return ws.loadChunk(coords)
}

func (ws *WorldStorage) loadChunk(coords vec.Vec3) (*ChunkDelta, error) {
	var delta ChunkDelta
	found, err := ws.get(chunkKey(coords), &delta)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения чанка %v: %w", coords, err)
	}
	if !found {
		return &ChunkDelta{Coords: coords}, nil
	}
	return &delta, nil
}

// ApplyDelta применяет дельту к миру. Клетки с неизвестным типом пропускаются.
func (ws *WorldStorage) ApplyDelta(w *world.World, delta *ChunkDelta) {
	if delta == nil || len(delta.Cells) == 0 {
		return
	}

	for _, c := range delta.Cells {
		t, ok := block.FromName(c.Block)
		if !ok {
			ws.log.Warn("неизвестный тип блока %q в (%d, %d, %d)", c.Block, c.X, c.Y, c.Z)
			continue
		}
		w.ApplyCellChange(world.CellChange{
			Pos:          vec.Vec3{X: c.X, Y: c.Y, Z: c.Z},
			Type:         t,
			PlayerPlaced: c.PlayerPlaced,
		})
	}

	// Загруженное состояние уже сохранено
	w.MarkChunkSaved(delta.Coords)
}

// LoadWorld применяет к миру все сохранённые дельты и возвращает число чанков
func (ws *WorldStorage) LoadWorld(w *world.World) (int, error) {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return 0, ErrNotReady
	}

	var deltas []*ChunkDelta
	err := ws.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(chunkPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var delta ChunkDelta
			err := it.Item().Value(func(val []byte) error {
				return ws.decode(val, &delta)
			})
			if err != nil {
				return fmt.Errorf("ключ %s: %w", it.Item().Key(), err)
			}
			deltas = append(deltas, &delta)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("ошибка загрузки мира: %w", err)
	}

	for _, d := range deltas {
		ws.ApplyDelta(w, d)
	}
	ws.log.Info("загружено чанков с изменениями: %d", len(deltas))
	return len(deltas), nil
}

// SaveItems сохраняет мелкие предметы и мебель мира
func (ws *WorldStorage) SaveItems(w *world.World) error {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return ErrNotReady
	}

	snap := ItemsSnapshot{SmallItems: w.SmallItems(), Props: w.PropPositions()}
	if err := ws.put([]byte(itemsKey), snap); err != nil {
		return fmt.Errorf("ошибка сохранения предметов: %w", err)
	}
	return nil
}

// LoadItems добавляет в мир сохранённые предметы и мебель.
// Предназначено для свежего мира: существующие предметы не удаляются.
func (ws *WorldStorage) LoadItems(w *world.World) error {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	if !ws.isReady {
		return ErrNotReady
	}

	var snap ItemsSnapshot
	found, err := ws.get([]byte(itemsKey), &snap)
	if err != nil {
		return fmt.Errorf("ошибка чтения предметов: %w", err)
	}
	if !found {
		return nil
	}

	for _, item := range snap.SmallItems {
		w.PlaceSmallItem(item)
	}
	for _, p := range snap.Props {
		w.PlaceProp(p)
	}
	return nil
}

// put сериализует значение в JSON, сжимает и записывает
func (ws *WorldStorage) put(key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("ошибка сериализации: %w", err)
	}
	compressed := ws.encoder.EncodeAll(data, nil)

	return ws.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, compressed)
	})
}

// get читает и распаковывает значение; found == false, если ключа нет
func (ws *WorldStorage) get(key []byte, v any) (bool, error) {
	err := ws.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return ws.decode(val, v)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (ws *WorldStorage) decode(compressed []byte, v any) error {
	data, err := ws.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return fmt.Errorf("ошибка распаковки: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("ошибка десериализации: %w", err)
	}
	return nil
}
