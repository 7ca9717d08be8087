package recurrence

import "github.com/teamcal/teamcal/pkg/event"

type OccurrenceDTO struct {
	event.EventDTO
	SeriesId    string `json:"seriesId"`
	SeriesIndex int    `json:"seriesIndex"`
	IsInstance  bool   `json:"isInstance"`
}

func ToDTO(o Occurrence) OccurrenceDTO {
	return OccurrenceDTO{
		EventDTO:    event.ToDTO(o.Event),
		SeriesId:    o.BaseID(),
		SeriesIndex: o.Series.Index,
		IsInstance:  o.Series.IsInstance,
	}
}

func ToDTOs(occurrences []Occurrence) []OccurrenceDTO {
	dtos := make([]OccurrenceDTO, 0, len(occurrences))
	for _, o := range occurrences {
		dtos = append(dtos, ToDTO(o))
	}
	return dtos
}

// FromDTO restores an occurrence, recovering the series from the id when the
// structured fields are missing.
func FromDTO(dto OccurrenceDTO) Occurrence {
	o := Occurrence{Event: event.FromDTO(dto.EventDTO)}
	o.Series = Series{BaseID: dto.SeriesId, Index: dto.SeriesIndex, IsInstance: dto.IsInstance}
	if o.Series.BaseID == "" {
		base, index, ok := ParseID(o.Id)
		o.Series = Series{BaseID: base, Index: index, IsInstance: ok}
	}
	return o
}
