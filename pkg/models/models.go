// Package models defines the domain entities of the route optimization
// engine: WorkOrder, Technician, the distance matrix, and the shapes a
// solve produces (RouteStop, TechnicianRoute, OptimizationResult). Every
// invariant named in §3 of the specification is enforced either at
// construction (via internal/common/validators) or by the solver
// framework before a solve begins.
package models

import "time"

// Location is a decimal-degree coordinate pair.
type Location struct {
	Lat float64
	Lng float64
}

// WorkOrder is a serviceable task at one property.
type WorkOrder struct {
	ID                string
	PropertyID        string
	Location          Location
	Priority          Priority
	RequiredSkills    []string
	ServiceDuration   time.Duration
	TimeWindowStart   time.Time
	TimeWindowEnd     time.Time
}

// Technician is a mobile worker with a home base, a skill set, a daily
// hour budget, and a shift window.
type Technician struct {
	ID         string
	Name       string
	Skills     []string
	Home       Location
	MaxHours   float64
	ShiftStart time.Time
	ShiftEnd   time.Time
}

// DistanceMatrix is a (T+W)x(T+W) symmetric matrix of great-circle
// distances in miles, indexed 0..T-1 for technician homes in input
// order followed by T..T+W-1 for work-order locations in input order.
type DistanceMatrix struct {
	Size int
	data []float64
}

// NewDistanceMatrix allocates a zeroed size x size matrix.
func NewDistanceMatrix(size int) *DistanceMatrix {
	return &DistanceMatrix{Size: size, data: make([]float64, size*size)}
}

// At returns the distance between node i and node j.
func (m *DistanceMatrix) At(i, j int) float64 {
	return m.data[i*m.Size+j]
}

// Set stores the distance between node i and node j, and its symmetric
// counterpart j,i.
func (m *DistanceMatrix) Set(i, j int, dist float64) {
	m.data[i*m.Size+j] = dist
	m.data[j*m.Size+i] = dist
}

// RouteStop is one visit within a TechnicianRoute.
type RouteStop struct {
	WorkOrderID      string
	PropertyID       string
	Location         Location
	Sequence         int
	Arrival          time.Time
	Departure        time.Time
	TravelDistanceMi float64
	TravelDurationMin float64
}

// TechnicianRoute is the ordered set of stops one technician performs
// within one shift, starting at their home. The return leg to home is
// not part of the stops or the totals.
type TechnicianRoute struct {
	TechnicianID        string
	TechnicianName      string
	Stops               []RouteStop
	TotalDistanceMi     float64
	TotalTravelDurationMin float64
	TotalWorkMinutes    float64
	UtilizationPercent  float64
}

// OptimizationResult is the value object a solve produces.
type OptimizationResult struct {
	Routes               []TechnicianRoute
	TotalDistanceMi       float64
	TotalTravelDurationMin float64
	UnassignedWorkOrderIDs []string
	Algorithm             string
	SolveSeconds          float64
	Metadata              map[string]interface{}
}
