package game2048

import (
	"crypto/sha256"
	"encoding/binary"
)

// Seed is an explicit randomness seed. The core never holds seed state
// between calls: every function that consumes randomness takes the seed as
// a parameter, so two callers with identical inputs always derive identical
// boards.
type Seed []byte

// Domain-separation prefixes for the digest chains, so a start-board digest
// can never collide with a spawn digest over the same bytes.
const (
	startDomain = "fair2048/v1/start"
	spawnDomain = "fair2048/v1/spawn"
)

// spawnExponent maps a digest to a tile exponent with the 90/10 split:
// exponent 2 (tile 4) when digest mod 100 > 90, exponent 1 (tile 2)
// otherwise.
func spawnExponent(d [sha256.Size]byte) uint8 {
	if binary.BigEndian.Uint64(d[:8])%100 > 90 {
		return 2
	}
	return 1
}

func digestMod(d [sha256.Size]byte, n int) int {
	return int(binary.BigEndian.Uint64(d[:8]) % uint64(n))
}

// StartBoard derives the deterministic two-tile start board from seed.
// One SHA-256 chain drives the whole derivation: the first link picks the
// first position, subsequent links pick the second position (re-hashed
// until distinct from the first) and then the two tile values. The result
// always satisfies the start-board invariant: exactly two nonzero tiles at
// distinct positions, each exponent 1 or 2.
func StartBoard(seed Seed) Board {
	h := sha256.Sum256(append([]byte(startDomain), seed...))
	p1 := digestMod(h, TileCount)

	h = sha256.Sum256(h[:])
	p2 := digestMod(h, TileCount)
	for p2 == p1 {
		h = sha256.Sum256(h[:])
		p2 = digestMod(h, TileCount)
	}

	h = sha256.Sum256(h[:])
	v1 := spawnExponent(h)

	h = sha256.Sum256(h[:])
	v2 := spawnExponent(h)

	var b Board
	return b.SetTile(p1, v1).SetTile(p2, v2)
}

// SpawnTile places the mandated post-move tile on result, the board
// produced by sliding prev along move. The digest binds all call inputs —
// previous board, move code, slid board, and the external seed — so the
// spawned position and value are a pure function of public data. If result
// has no empty cell, it is returned unchanged.
func SpawnTile(prev Board, move Move, result Board, seed Seed) Board {
	empty := result.EmptyPositions()
	if len(empty) == 0 {
		return result
	}

	msg := make([]byte, 0, len(spawnDomain)+2*TileCount+1+len(seed))
	msg = append(msg, spawnDomain...)
	prevBytes := prev.Bytes()
	msg = append(msg, prevBytes[:]...)
	msg = append(msg, byte(move))
	resultBytes := result.Bytes()
	msg = append(msg, resultBytes[:]...)
	msg = append(msg, seed...)

	d := sha256.Sum256(msg)
	pos := empty[digestMod(d, len(empty))]
	return result.SetTile(pos, spawnExponent(d))
}
