package memory

import "terragrip/internal/domain"

// Seed loads a demonstration dataset: a spread of Texas and California
// districts with vendor presence, two starter plans, and a handful of CRM
// records. Used when no Postgres DSN is configured.
func Seed(s *Store) {
	districts := []*domain.District{
		{ID: "tx-austin", Name: "Austin ISD", State: "TX", County: "Travis", Enrollment: 73000, ELLPct: 27.5, SWDPct: 11.2, Owner: "amy", Vendors: []string{"elevate", "pulse"}},
		{ID: "tx-houston", Name: "Houston ISD", State: "TX", County: "Harris", Enrollment: 189000, ELLPct: 35.1, SWDPct: 9.8, Owner: "amy", Vendors: []string{"elevate"}},
		{ID: "tx-dallas", Name: "Dallas ISD", State: "TX", County: "Dallas", Enrollment: 141000, ELLPct: 40.2, SWDPct: 10.4, Owner: "bob", Vendors: []string{"pulse"}},
		{ID: "tx-elpaso", Name: "El Paso ISD", State: "TX", County: "El Paso", Enrollment: 51000, ELLPct: 22.9, SWDPct: 12.7, Owner: "bob", Vendors: []string{"compass"}},
		{ID: "tx-laredo", Name: "Laredo ISD", State: "TX", County: "Webb", Enrollment: 24000, ELLPct: 48.3, SWDPct: 8.9, Owner: "amy", Vendors: []string{"elevate", "compass"}},
		{ID: "ca-lausd", Name: "Los Angeles USD", State: "CA", County: "Los Angeles", Enrollment: 430000, ELLPct: 20.1, SWDPct: 13.0, Owner: "carla", Vendors: []string{"elevate"}},
		{ID: "ca-sdusd", Name: "San Diego USD", State: "CA", County: "San Diego", Enrollment: 95000, ELLPct: 18.7, SWDPct: 12.1, Owner: "carla", Vendors: []string{"pulse"}},
		{ID: "ca-fresno", Name: "Fresno USD", State: "CA", County: "Fresno", Enrollment: 70000, ELLPct: 19.4, SWDPct: 10.9, Owner: "bob", Vendors: []string{"elevate", "pulse"}},
		{ID: "ca-oak", Name: "Oakland USD", State: "CA", County: "Alameda", Enrollment: 34000, ELLPct: 31.0, SWDPct: 14.2, Owner: "carla", Vendors: []string{"compass"}},
		{ID: "ca-sfusd", Name: "San Francisco USD", State: "CA", County: "San Francisco", Enrollment: 49000, ELLPct: 28.6, SWDPct: 11.8, Owner: "amy", Vendors: []string{"pulse", "compass"}},
	}

	// Coarse placeholder footprints; the grid renderer keys off ids, the
	// camera fit only needs a plausible box.
	boxes := map[domain.FeatureID][2][2]float64{
		"tx-austin":  {{-98.0, 30.1}, {-97.5, 30.5}},
		"tx-houston": {{-95.8, 29.5}, {-95.0, 30.1}},
		"tx-dallas":  {{-97.0, 32.6}, {-96.5, 33.0}},
		"tx-elpaso":  {{-106.6, 31.6}, {-106.2, 31.9}},
		"tx-laredo":  {{-99.6, 27.4}, {-99.3, 27.7}},
		"ca-lausd":   {{-118.7, 33.7}, {-118.1, 34.3}},
		"ca-sdusd":   {{-117.3, 32.6}, {-116.9, 33.0}},
		"ca-fresno":  {{-119.9, 36.6}, {-119.6, 36.9}},
		"ca-oak":     {{-122.3, 37.7}, {-122.1, 37.9}},
		"ca-sfusd":   {{-122.5, 37.7}, {-122.3, 37.85}},
	}
	for _, d := range districts {
		if box, ok := boxes[d.ID]; ok {
			lo, hi := box[0], box[1]
			d.Geometry = domain.Geometry{Parts: [][][][2]float64{
				{{{lo[0], lo[1]}, {hi[0], lo[1]}, {hi[0], hi[1]}, {lo[0], hi[1]}}},
			}}
		}
		s.AddDistrict(d)
	}

	s.AddRegion(&domain.Region{Code: "TX", Name: "Texas", Geometry: domain.Geometry{Parts: [][][][2]float64{
		{{{-106.6, 25.8}, {-93.5, 25.8}, {-93.5, 36.5}, {-106.6, 36.5}}},
	}}})
	s.AddRegion(&domain.Region{Code: "CA", Name: "California", Geometry: domain.Geometry{Parts: [][][][2]float64{
		{{{-124.4, 32.5}, {-114.1, 32.5}, {-114.1, 42.0}, {-124.4, 42.0}}},
	}}})

	s.CreatePlan(&domain.Plan{ID: "plan-tx-core", Name: "Texas Core", Owner: "amy", Districts: []domain.FeatureID{"tx-austin", "tx-houston"}})
	s.CreatePlan(&domain.Plan{ID: "plan-west", Name: "West Coast", Owner: "carla", Districts: []domain.FeatureID{"ca-lausd", "ca-sdusd", "ca-sfusd"}})

	s.AddActivity(&domain.Activity{ID: "act-1", DistrictID: "tx-austin", Kind: "meeting", Subject: "Renewal kickoff", Owner: "amy", Status: domain.ActivityOpen, DueDate: "2026-09-15"})
	s.AddActivity(&domain.Activity{ID: "act-2", DistrictID: "tx-dallas", Kind: "call", Subject: "Pilot feedback", Owner: "bob", Status: domain.ActivityClosed, DueDate: "2026-08-02"})
	s.AddActivity(&domain.Activity{ID: "act-3", DistrictID: "ca-lausd", Kind: "email", Subject: "Pricing follow-up", Owner: "carla", Status: domain.ActivityOpen, DueDate: "2026-09-01"})

	s.AddTask(&domain.Task{ID: "task-1", PlanID: "plan-tx-core", Title: "Draft QBR deck", Owner: "amy", Done: false, DueDate: "2026-09-20", Priority: 2})
	s.AddTask(&domain.Task{ID: "task-2", PlanID: "plan-tx-core", Title: "Confirm Houston contacts", Owner: "amy", Done: true, DueDate: "2026-08-10", Priority: 1})
	s.AddTask(&domain.Task{ID: "task-3", PlanID: "plan-west", Title: "Schedule LAUSD onsite", Owner: "carla", Done: false, DueDate: "2026-10-05", Priority: 3})

	s.AddContact(&domain.Contact{ID: "ct-1", DistrictID: "tx-austin", Name: "Dana Reyes", Title: "Director of Curriculum", Email: "dreyes@example.org", Primary: true})
	s.AddContact(&domain.Contact{ID: "ct-2", DistrictID: "tx-houston", Name: "Miguel Tran", Title: "CTO", Email: "mtran@example.org", Primary: true})
	s.AddContact(&domain.Contact{ID: "ct-3", DistrictID: "ca-lausd", Name: "Priya Shah", Title: "Procurement Lead", Email: "pshah@example.org", Primary: false})
}
