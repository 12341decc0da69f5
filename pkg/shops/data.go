package shops

// defaultShops lists the places around the office. Menus were copied from the
// delivery site by hand; shops without a menu are walk-in only.
var defaultShops = []Shop{
	{
		Name: "Subway",
		URL:  "https://www.thuisbezorgd.nl/en/subway-rotterdam-oude-binnenweg",
		Menu: []string{
			"Chicken Teriyaki € 7,30",
			"Italian B.M.T® € 7,10",
			"Veggie Patty € 9,80",
			"Subway Melt™ € 9,80",
			"Steak & Cheese € 9,80",
			"Chicken Fajita € 9,80",
			"Gegrilde Kipfilet € 9,60",
			"American Steakhouse Melt € 9,60",
			"Spicy Italian € 9,60",
			"Tonijn € 9,60",
			"Ham € 8,80",
			"Kalkoenfilet € 8,80",
			"BLT € 8,80",
			"Veggie Delite™ € 8,80",
			"Ei & Kaas € 9,29",
			"Bacon, Ei & kaas € 10,09",
			"Ham, Ei & Kaas € 10,09",
			"Steak, Ei & Kaas € 11,29",
			"Chicken Teriyaki Salad € 7,50",
			"Veggie Patty Salad € 7,50",
			"Subway Melt™ Salad € 7,50",
			"Steak & Cheese Salad € 7,50",
			"Chicken Fajita Salad € 7,50",
			"Italian B.M.T® Salad € 7,50",
			"Spicy Italian Salad € 7,50",
			"Tonijn Salad € 7,50",
			"Ham Salad € 7,50",
			"BLT Salad € 7,50",
			"Veggie Delite™ Salad € 7,50",
		},
	},
	{
		Name: "Pannenkoekenhuis Dutch Diner",
		URL:  "https://www.thuisbezorgd.nl/en/dutch-diner",
	},
	{Name: "Bakker Bart"},
	{Name: "Vis en Kipgilde"},
	{Name: "Croissanterie de Snor"},
	{Name: "Kumpir Corner"},
	{Name: "EG Budapest"},
	{Name: "El Aviv Overschie"},
	{Name: "El Aviv Lorentzlaan"},
	{Name: "El Aviv Schiedam"},
}
