package inventory

// DefaultSlots задаёт размер инвентаря игрока по умолчанию
const DefaultSlots = 36

// DefaultStackLimit задаёт максимальное количество предметов в одном слоте
const DefaultStackLimit = 64

// Slot описывает ячейку инвентаря
type Slot struct {
	Material Material
	Count    int
}

// Empty сообщает, свободен ли слот
func (s Slot) Empty() bool {
	return s.Material == None || s.Count == 0
}

// Inventory реализует слотовый инвентарь фиксированной ёмкости.
// Операции добавления и удаления выполняются целиком или не выполняются вовсе.
// Не безопасен для конкурентного использования.
type Inventory struct {
	slots      []Slot
	stackLimit int
}

// NewInventory создаёт инвентарь с указанным числом слотов и лимитом стака
func NewInventory(slots, stackLimit int) *Inventory {
	if slots <= 0 {
		slots = DefaultSlots
	}
	if stackLimit <= 0 {
		stackLimit = DefaultStackLimit
	}
	return &Inventory{
		slots:      make([]Slot, slots),
		stackLimit: stackLimit,
	}
}

// Size возвращает число слотов
func (inv *Inventory) Size() int {
	return len(inv.slots)
}

// Slot возвращает содержимое слота; вне диапазона возвращается пустой слот
func (inv *Inventory) Slot(index int) Slot {
	if index < 0 || index >= len(inv.slots) {
		return Slot{}
	}
	return inv.slots[index]
}

// ItemCount возвращает суммарное количество материала во всех слотах
func (inv *Inventory) ItemCount(m Material) int {
	total := 0
	for _, s := range inv.slots {
		if s.Material == m {
			total += s.Count
		}
	}
	return total
}

// HasItem проверяет наличие как минимум count единиц материала
func (inv *Inventory) HasItem(m Material, count int) bool {
	if m == None {
		return false
	}
	return inv.ItemCount(m) >= count
}

// AddItem добавляет count единиц материала.
// Если места не хватает, инвентарь не изменяется и возвращается false.
func (inv *Inventory) AddItem(m Material, count int) bool {
	if m == None || count <= 0 {
		return false
	}

	space := 0
	for _, s := range inv.slots {
		switch {
		case s.Empty():
			space += inv.stackLimit
		case s.Material == m:
			space += inv.stackLimit - s.Count
		}
	}
	if space < count {
		return false
	}

	// Сначала дополняем существующие стаки, затем занимаем пустые слоты
	remaining := count
	for i := range inv.slots {
		if remaining == 0 {
			break
		}
		s := &inv.slots[i]
		if s.Material == m && s.Count > 0 && s.Count < inv.stackLimit {
			n := min(inv.stackLimit-s.Count, remaining)
			s.Count += n
			remaining -= n
		}
	}
	for i := range inv.slots {
		if remaining == 0 {
			break
		}
		s := &inv.slots[i]
		if s.Empty() {
			n := min(inv.stackLimit, remaining)
			*s = Slot{Material: m, Count: n}
			remaining -= n
		}
	}

	return true
}

// RemoveItem забирает count единиц материала.
// При нехватке инвентарь не изменяется и возвращается false.
func (inv *Inventory) RemoveItem(m Material, count int) bool {
	if m == None || count <= 0 {
		return false
	}
	if inv.ItemCount(m) < count {
		return false
	}

	// Забираем с конца, чтобы первые слоты (быстрая панель) опустошались последними
	remaining := count
	for i := len(inv.slots) - 1; i >= 0 && remaining > 0; i-- {
		s := &inv.slots[i]
		if s.Material != m {
			continue
		}
		n := min(s.Count, remaining)
		s.Count -= n
		remaining -= n
		if s.Count == 0 {
			*s = Slot{}
		}
	}

	return true
}

// Snapshot возвращает копию всех слотов
func (inv *Inventory) Snapshot() []Slot {
	out := make([]Slot, len(inv.slots))
	copy(out, inv.slots)
	return out
}

// Restore заменяет содержимое слотов сохранённым снимком.
// Лишние слоты снимка отбрасываются, количество обрезается лимитом стака.
func (inv *Inventory) Restore(slots []Slot) {
	for i := range inv.slots {
		inv.slots[i] = Slot{}
		if i >= len(slots) || slots[i].Empty() || slots[i].Count < 0 {
			continue
		}
		s := slots[i]
		s.Count = min(s.Count, inv.stackLimit)
		inv.slots[i] = s
	}
}
