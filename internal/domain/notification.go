package domain

type NotificationMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type DraftGeneratedMailData struct {
	StoreName     string `json:"storeName"`
	PlanYear      int    `json:"planYear"`
	PlanMonth     int    `json:"planMonth"`
	ShiftCount    int    `json:"shiftCount"`
	ShortfallDays int    `json:"shortfallDays"`
	DroppedShifts int    `json:"droppedShifts"`
}
