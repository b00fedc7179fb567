package stub

import "tableside/internal/domain/models"

// seed loads a small fixed dataset so the client flow works out of the box.
func (s *Server) seed() {
	s.menu = []models.MenuCategory{
		{
			ID:   "cat-mains",
			Name: "Mains",
			Items: []models.MenuItem{
				{ID: "m1", Name: "Margherita", Description: "Tomato, mozzarella, basil", Price: 500, Available: true},
				{ID: "m2", Name: "Lasagna", Description: "Beef ragù, béchamel", Price: 1200, Available: true},
				{ID: "m3", Name: "Seasonal Soup", Description: "Ask your waiter", Price: 700, Available: false},
			},
		},
		{
			ID:   "cat-drinks",
			Name: "Drinks",
			Items: []models.MenuItem{
				{ID: "d1", Name: "Sparkling Water", Price: 150, Available: true},
				{ID: "d2", Name: "House Lemonade", Price: 250, Available: true},
			},
		},
	}
	for _, cat := range s.menu {
		for _, item := range cat.Items {
			s.items[item.ID] = item
		}
	}

	for _, table := range []models.Table{
		{ID: "t1", Number: 1, Name: "Window 1", Capacity: 2, Location: "front"},
		{ID: "t2", Number: 2, Name: "Window 2", Capacity: 4, Location: "front"},
		{ID: "t7", Number: 7, Name: "Garden 7", Capacity: 6, Location: "terrace"},
	} {
		s.tables[table.ID] = table
	}

	s.methods = []models.PaymentMethod{
		{ID: "pm-cash", Type: models.MethodCash, Name: "Cash", Active: true},
		{ID: "pm-pos", Type: models.MethodPOS, Name: "Card at table", Active: true},
		{ID: "pm-transfer", Type: models.MethodTransfer, Name: "Bank Transfer", Active: true,
			BankName: "First National", AccountNumber: "0123456789", AccountHolder: "The Bistro"},
		{ID: "pm-crypto", Type: models.MethodTransfer, Name: "Crypto", Active: false},
	}
}
