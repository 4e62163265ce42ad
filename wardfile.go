package metawards

import (
	"encoding/json"
	"os"
)

// wardInfoData is the JSON shape of WardInfo within a Ward JSON document
// (spec section 6).
type wardInfoData struct {
	Name      string `json:"name,omitempty"`
	Code      string `json:"code,omitempty"`
	Authority string `json:"authority,omitempty"`
	Region    string `json:"region,omitempty"`
}

// wardPositionData is the JSON shape of Position: either {x,y} or
// {lat,long}, never both (spec section 6).
type wardPositionData struct {
	X    *float64 `json:"x,omitempty"`
	Y    *float64 `json:"y,omitempty"`
	Lat  *float64 `json:"lat,omitempty"`
	Long *float64 `json:"long,omitempty"`
}

// wardWorkersData and wardPlayersData are the shapes of the
// workers/players blocks: parallel destination/value arrays.
type wardWorkersData struct {
	Destination []int `json:"destination"`
	Population  []int `json:"population"`
}

type wardPlayersData struct {
	Destination []int     `json:"destination"`
	Weights     []float64 `json:"weights"`
}

// WardData is the on-the-wire JSON representation of a Ward
// (`to_data`/`from_data`, spec section 6).
type WardData struct {
	ID                int              `json:"id"`
	Info              wardInfoData     `json:"info"`
	Position          *wardPositionData `json:"position,omitempty"`
	AutoAssignPlayers bool             `json:"auto_assign_players"`
	NumWorkers        int              `json:"num_workers"`
	NumPlayers        int              `json:"num_players"`
	Workers           wardWorkersData  `json:"workers"`
	Players           wardPlayersData  `json:"players"`
}

// ToData converts w into its wire representation. Player weights are
// emitted without the auto-assigned home-ward residual folded in (that
// residual is reconstructed on load from AutoAssignPlayers + the
// remaining player_total), so FromData(w.ToData()) reproduces w exactly.
func (w *Ward) ToData() (*WardData, error) {
	wd := &WardData{
		ID:                w.id,
		Info:              wardInfoData{Name: w.info.Name, Code: w.info.Code, Authority: w.info.Authority, Region: w.info.Region},
		AutoAssignPlayers: w.autoAssignPlayers,
		NumWorkers:        w.numWorkers,
		NumPlayers:        w.numPlayers,
	}

	if w.position != nil {
		p := w.position
		if p.HasXY {
			x, y := p.X, p.Y
			wd.Position = &wardPositionData{X: &x, Y: &y}
		} else if p.HasLatLong {
			lat, long := p.Lat, p.Long
			wd.Position = &wardPositionData{Lat: &lat, Long: &long}
		}
	}

	dests, counts, err := w.GetWorkerLists()
	if err != nil {
		return nil, err
	}
	wd.Workers = wardWorkersData{Destination: dests, Population: counts}

	pdests, pweights, err := w.GetPlayerLists(true)
	if err != nil {
		return nil, err
	}
	wd.Players = wardPlayersData{Destination: pdests, Weights: pweights}

	return wd, nil
}

// FromData reconstructs a Ward from its wire representation.
func (wd *WardData) FromData() (*Ward, error) {
	w, err := NewWard(wd.ID)
	if err != nil {
		return nil, err
	}
	w.SetInfo(WardInfo{Name: wd.Info.Name, Code: wd.Info.Code, Authority: wd.Info.Authority, Region: wd.Info.Region})
	w.SetAutoAssignPlayers(wd.AutoAssignPlayers)

	if wd.Position != nil {
		switch {
		case wd.Position.X != nil && wd.Position.Y != nil:
			w.SetPosition(Position{HasXY: true, X: *wd.Position.X, Y: *wd.Position.Y})
		case wd.Position.Lat != nil && wd.Position.Long != nil:
			w.SetPosition(PositionFromLatLong(*wd.Position.Lat, *wd.Position.Long))
		}
	}

	if len(wd.Workers.Destination) != len(wd.Workers.Population) {
		return nil, errorf(ErrArrayLengthMismatch, "workers.population", len(wd.Workers.Population), len(wd.Workers.Destination))
	}
	for i, d := range wd.Workers.Destination {
		if err := w.AddWorkers(wd.Workers.Population[i], DestID(d)); err != nil {
			return nil, err
		}
	}

	if len(wd.Players.Destination) != len(wd.Players.Weights) {
		return nil, errorf(ErrArrayLengthMismatch, "players.weights", len(wd.Players.Weights), len(wd.Players.Destination))
	}
	for i, d := range wd.Players.Destination {
		if err := w.AddPlayerWeight(wd.Players.Weights[i], DestID(d)); err != nil {
			return nil, err
		}
	}

	if wd.NumWorkers != 0 && wd.NumWorkers != w.NumWorkers() {
		return nil, errorf(UnequalIntParameterError, "num_workers", wd.NumWorkers, w.NumWorkers())
	}

	if err := w.SetNumPlayers(wd.NumPlayers); err != nil {
		return nil, err
	}

	return w, nil
}

// MarshalWard is a convenience wrapper combining ToData with
// json.Marshal, for callers that just want ward JSON bytes.
func MarshalWard(w *Ward) ([]byte, error) {
	wd, err := w.ToData()
	if err != nil {
		return nil, err
	}
	return json.Marshal(wd)
}

// UnmarshalWard is the ToData-wrapper's inverse.
func UnmarshalWard(data []byte) (*Ward, error) {
	var wd WardData
	if err := json.Unmarshal(data, &wd); err != nil {
		return nil, errorf(ErrMalformedFile, "ward", err.Error())
	}
	return wd.FromData()
}

// LoadWardsFromJSON reads a JSON array of WardData from path and builds
// a Wards collection from it -- the "built once from JSON" half of the
// Ward/Wards/Network lifecycle (spec section 4's Lifecycle note).
// Callers still need to call Resolve before compiling to a Network.
func LoadWardsFromJSON(path string) (*Wards, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errorf(ErrMalformedFile, path, err.Error())
	}

	var entries []WardData
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errorf(ErrMalformedFile, path, err.Error())
	}

	ws := NewWards(len(entries))
	for _, wd := range entries {
		w, err := wd.FromData()
		if err != nil {
			return nil, err
		}
		if err := ws.Add(w); err != nil {
			return nil, err
		}
	}
	return ws, nil
}

// SaveWardsJSON writes every ward in ws out as a JSON array, the
// inverse of LoadWardsFromJSON.
func SaveWardsJSON(ws *Wards, path string) error {
	entries := make([]*WardData, 0, ws.N())
	for _, w := range ws.List() {
		wd, err := w.ToData()
		if err != nil {
			return err
		}
		entries = append(entries, wd)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errorf(ErrMalformedFile, path, err.Error())
	}
	return nil
}
