package model

import "time"

// Auditorium is a screening room.  The row counts record the layout the
// seat plan was generated from: standard rows first, then VIP, then
// couple, each with SeatsPerRow seats.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – unique auditorium name.
//  StandardRows – number of standard rows at the front.
//  VIPRows      – number of VIP rows behind them.
//  CoupleRows   – number of couple rows at the back.
//  SeatsPerRow  – seats in every row.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Auditorium struct {
	ID           uint64    // auditoriums.id
	Name         string    // auditoriums.name
	StandardRows uint32    // auditoriums.standard_rows
	VIPRows      uint32    // auditoriums.vip_rows
	CoupleRows   uint32    // auditoriums.couple_rows
	SeatsPerRow  uint32    // auditoriums.seats_per_row
	CreatedAt    time.Time // auditoriums.created_at
	UpdatedAt    time.Time // auditoriums.updated_at
}

// TotalRows returns the number of rows across all blocks.
func (a *Auditorium) TotalRows() uint32 {
	return a.StandardRows + a.VIPRows + a.CoupleRows
}
