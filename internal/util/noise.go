package util

import (
	"math/rand"

	"github.com/aquilax/go-perlin"
)

// Параметры шума Перлина
const (
	perlinAlpha   = 2.0 // Сглаживание шума
	perlinBeta    = 2.0 // Частота шума
	perlinOctaves = 3   // Количество октав
)

// Noise представляет генератор шума Перлина, привязанный к сиду.
// В отличие от глобального экземпляра, каждый мир владеет своим генератором.
type Noise struct {
	perlin *perlin.Perlin
}

// NewNoise создаёт генератор шума с указанным сидом
func NewNoise(seed int64) *Noise {
	return &Noise{
		perlin: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed),
	}
}

// Noise2D возвращает значение шума для указанных координат (от 0 до 1)
func (n *Noise) Noise2D(x, y float64) float64 {
	// Значение шума лежит в диапазоне от -1 до 1
	v := (n.perlin.Noise2D(x, y) + 1.0) / 2.0
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// HashSeed смешивает сид мира и целочисленные координаты в новый сид (SplitMix64).
// Результат не зависит от порядка обращений, поэтому годится для ленивой генерации.
func HashSeed(seed int64, coords ...int) int64 {
	h := uint64(seed)
	for _, c := range coords {
		h ^= uint64(int64(c)) + 0x9E3779B97F4A7C15 + (h << 6) + (h >> 2)
		h = splitmix64(h)
	}
	return int64(h)
}

// NewRand создаёт локальный генератор случайных чисел для координат
func NewRand(seed int64, coords ...int) *rand.Rand {
	return rand.New(rand.NewSource(HashSeed(seed, coords...)))
}

func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	return x ^ (x >> 31)
}
