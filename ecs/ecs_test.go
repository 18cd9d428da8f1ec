package ecs_test

import (
	"testing"

	"github.com/go-mclib/botclient/ecs"
)

func TestWorldSpawnDespawn(t *testing.T) {
	w := ecs.NewWorld()
	e := w.Spawn()
	if e.Health != 20 || e.Hunger != 20 {
		t.Fatalf("expected vanilla default health/hunger, got %v/%v", e.Health, e.Hunger)
	}
	if got, ok := w.Get(e.ID); !ok || got != e {
		t.Fatalf("expected Get to return the spawned entity")
	}
	if w.Len() != 1 {
		t.Fatalf("expected 1 entity, got %d", w.Len())
	}

	w.Despawn(e.ID)
	if _, ok := w.Get(e.ID); ok {
		t.Fatalf("expected entity to be gone after Despawn")
	}
}

func TestEyePosition(t *testing.T) {
	e := ecs.NewEntity(1)
	e.Position = ecs.Position{X: 1, Y: 2, Z: 3}
	e.EyeHeight = 1.62
	eye := e.EyePosition()
	if eye.X != 1 || eye.Z != 3 || eye.Y != 3.62 {
		t.Fatalf("unexpected eye position: %+v", eye)
	}
}

func TestInstanceChunkLifecycle(t *testing.T) {
	inst := ecs.NewInstance()
	pos := ecs.ChunkPos{X: 0, Z: 0}

	if _, ok := inst.Chunk(pos); ok {
		t.Fatalf("expected no chunk before ReplaceChunk")
	}

	inst.ReplaceChunk(pos, []byte{1, 2, 3})
	data, ok := inst.Chunk(pos)
	if !ok || len(data) != 3 {
		t.Fatalf("expected chunk data to be stored, got %v ok=%v", data, ok)
	}

	inst.UnloadChunk(pos)
	if _, ok := inst.Chunk(pos); ok {
		t.Fatalf("expected chunk to be gone after UnloadChunk")
	}
}

func TestPartialInstanceInRange(t *testing.T) {
	shared := ecs.NewInstance()
	p := ecs.NewPartialInstance(shared, 2)
	p.ViewCenter = ecs.ChunkPos{X: 10, Z: 10}

	if !p.InRange(ecs.ChunkPos{X: 11, Z: 9}) {
		t.Fatalf("expected chunk within radius to be in range")
	}
	if p.InRange(ecs.ChunkPos{X: 20, Z: 20}) {
		t.Fatalf("expected far chunk to be out of range")
	}
}

func TestRegistryHolder(t *testing.T) {
	rh := ecs.NewRegistryHolder()
	rh.SetEntry("minecraft:worldgen/biome", "minecraft:plains", []byte{0xAB})

	data, ok := rh.Entry("minecraft:worldgen/biome", "minecraft:plains")
	if !ok || len(data) != 1 || data[0] != 0xAB {
		t.Fatalf("expected stored registry entry to round-trip")
	}
	if _, ok := rh.Entry("minecraft:worldgen/biome", "minecraft:desert"); ok {
		t.Fatalf("expected missing entry to report not-ok")
	}
}
