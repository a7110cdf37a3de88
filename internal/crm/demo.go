package crm

import "time"

// Demo returns the sample book shown by the desk. Timestamps are laid out
// relative to now so the activity feed always looks recent.
func Demo(now time.Time) Book {
	ago := func(d time.Duration) time.Time { return now.Add(-d) }

	return Book{
		Contacts: []Contact{
			{ID: "c-01", Name: "Ada Osei", Company: "Northwind Freight", Email: "ada@northwind.example", Phone: "+1 555 0101", Owner: "mira"},
			{ID: "c-02", Name: "Bruno Alves", Company: "Lumen Health", Email: "bruno@lumen.example", Phone: "+1 555 0102", Owner: "sam"},
			{ID: "c-03", Name: "Chen Wei", Company: "Harbor Analytics", Email: "chen@harbor.example", Phone: "+1 555 0103", Owner: "mira"},
			{ID: "c-04", Name: "Dana Kowalski", Company: "Pinecrest Schools", Email: "dana@pinecrest.example", Phone: "+1 555 0104", Owner: "jo"},
			{ID: "c-05", Name: "Emeka Nwosu", Company: "Atlas Robotics", Email: "emeka@atlas.example", Phone: "+1 555 0105", Owner: "sam"},
			{ID: "c-06", Name: "Farah Haddad", Company: "Quayside Hotels", Email: "farah@quayside.example", Phone: "+1 555 0106", Owner: "jo"},
			{ID: "c-07", Name: "Greta Lind", Company: "Fjord Energy", Email: "greta@fjord.example", Phone: "+1 555 0107", Owner: "mira"},
		},
		Deals: []Deal{
			{ID: "d-101", Title: "Fleet telematics rollout", ContactID: "c-01", Stage: StageNegotiation, Value: 84000, Owner: "mira", UpdatedAt: ago(3 * time.Hour)},
			{ID: "d-102", Title: "Clinic scheduling suite", ContactID: "c-02", Stage: StageProposal, Value: 42000, Owner: "sam", UpdatedAt: ago(26 * time.Hour)},
			{ID: "d-103", Title: "Analytics seats renewal", ContactID: "c-03", Stage: StageWon, Value: 31000, Owner: "mira", UpdatedAt: ago(50 * time.Hour)},
			{ID: "d-104", Title: "District pilot", ContactID: "c-04", Stage: StageQualified, Value: 12500, Owner: "jo", UpdatedAt: ago(5 * time.Hour)},
			{ID: "d-105", Title: "Warehouse automation", ContactID: "c-05", Stage: StageLead, Value: 150000, Owner: "sam", UpdatedAt: ago(30 * time.Minute)},
			{ID: "d-106", Title: "Guest messaging", ContactID: "c-06", Stage: StageLost, Value: 18000, Owner: "jo", UpdatedAt: ago(72 * time.Hour)},
			{ID: "d-107", Title: "Grid monitoring", ContactID: "c-07", Stage: StageWon, Value: 56000, Owner: "sam", UpdatedAt: ago(8 * time.Hour)},
			{ID: "d-108", Title: "Cold-chain sensors", ContactID: "c-01", Stage: StageProposal, Value: 27000, Owner: "mira", UpdatedAt: ago(2 * time.Hour)},
		},
		Activities: []Activity{
			{At: ago(20 * time.Minute), Kind: "call", Subject: "Scoped warehouse pilot", Contact: "Emeka Nwosu"},
			{At: ago(2 * time.Hour), Kind: "email", Subject: "Sent cold-chain proposal", Contact: "Ada Osei"},
			{At: ago(4 * time.Hour), Kind: "meeting", Subject: "Pricing review", Contact: "Ada Osei"},
			{At: ago(9 * time.Hour), Kind: "note", Subject: "Signed grid monitoring", Contact: "Greta Lind"},
			{At: ago(27 * time.Hour), Kind: "email", Subject: "Follow-up on scheduling demo", Contact: "Bruno Alves"},
			{At: ago(49 * time.Hour), Kind: "call", Subject: "Renewal confirmed", Contact: "Chen Wei"},
		},
	}
}
