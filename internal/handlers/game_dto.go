package handlers

import (
	"github.com/gorilla/schema"

	"github.com/pravdin97/minesweeper/internal/mines"
	"github.com/pravdin97/minesweeper/internal/session"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

type CreateGameDTO struct {
	Seed string `schema:"seed"`
}

func ParseCreateGameDTO(src map[string][]string) (CreateGameDTO, error) {
	var dto CreateGameDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

type PositionDTO struct {
	Row int `schema:"row,required"`
	Col int `schema:"col,required"`
}

func ParsePosition(src map[string][]string) (mines.Position, error) {
	var dto PositionDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return mines.Position{}, err
	}
	return mines.Position{Row: dto.Row, Col: dto.Col}, nil
}

type GameDTO struct {
	GameID    string          `json:"game_id"`
	Version   uint64          `json:"version"`
	Round     int             `json:"round"`
	Rows      int             `json:"rows"`
	Cols      int             `json:"cols"`
	MineCount int             `json:"mine_count"`
	Status    string          `json:"status"`
	LostAt    *mines.Position `json:"lost_at,omitempty"`
	Seed      string          `json:"seed,omitempty"`
	Revealed  int             `json:"revealed"`
	Flags     int             `json:"flags"`
	Board     mines.Board     `json:"board"`
	Owner     bool            `json:"owner"`
	CreatedAt int64           `json:"created_at"`
	UpdatedAt int64           `json:"updated_at"`
}

// NewGameDTO converts a snapshot for the wire. The seed would give away the
// layout of the current round, so it is only sent once that round is lost.
// Later rounds are generated from new seeds.
func NewGameDTO(s session.Snapshot, owner bool) *GameDTO {
	dto := &GameDTO{
		GameID:    s.ID,
		Version:   s.Version,
		Round:     s.Round,
		Rows:      s.Dims.Rows,
		Cols:      s.Dims.Cols,
		MineCount: s.MineCount,
		Status:    "in_progress",
		Revealed:  s.Revealed,
		Flags:     s.Flags,
		Board:     s.Board,
		Owner:     owner,
		CreatedAt: s.CreatedAt.UnixMilli(),
		UpdatedAt: s.UpdatedAt.UnixMilli(),
	}
	if s.Status.Lost() {
		at := s.Status.At
		dto.Status = "lost"
		dto.LostAt = &at
		dto.Seed = s.Seed
	}
	return dto
}
