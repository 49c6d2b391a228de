package buffer

// Exchanges keep the raw prompt/answer pairs from the planner's model calls
// so a finished investigation can be audited beyond the structured records.

type Memories struct {
	Items []Memory `json:"memories"`
}

type Memory struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (m *Memories) Add(m2 Memory) {
	m.Items = append(m.Items, m2)
}
