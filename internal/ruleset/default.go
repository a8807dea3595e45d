package ruleset

// Default returns a small, self-contained "classic" ruleset so the
// server and its tests can run without an external data file. Content
// is illustrative, not canonical — spec.md §1 treats ruleset data as an
// external collaborator; this is the fixture a read-only loader would
// otherwise deserialize from disk.
func Default() Ruleset {
	return Ruleset{
		ID: "classic",
		Nations: []Nation{
			{ID: "romans", Name: "Romans", Color: "#b22222"},
			{ID: "greeks", Name: "Greeks", Color: "#4169e1"},
			{ID: "egyptians", Name: "Egyptians", Color: "#daa520"},
			{ID: "celts", Name: "Celts", Color: "#228b22"},
			{ID: "persians", Name: "Persians", Color: "#8b008b"},
			{ID: "zulus", Name: "Zulus", Color: "#ff8c00"},
		},
		UnitTypes: map[string]UnitType{
			"settler":  {ID: "settler", Name: "Settler", Combat: 0, MaxMovement: 3, SightRange: 1, Cost: 30, CanFound: true},
			"worker":   {ID: "worker", Name: "Worker", Combat: 0, MaxMovement: 3, SightRange: 1, Cost: 20},
			"warrior":  {ID: "warrior", Name: "Warrior", Combat: 10, MaxMovement: 3, SightRange: 1, Cost: 10, VeteranBonus: 25},
			"archer":   {ID: "archer", Name: "Archer", Combat: 15, MaxMovement: 3, SightRange: 1, Cost: 20, VeteranBonus: 25},
			"phalanx":  {ID: "phalanx", Name: "Phalanx", Combat: 10, MaxMovement: 3, SightRange: 1, Cost: 15, VeteranBonus: 25},
			"horseman": {ID: "horseman", Name: "Horseman", Combat: 20, MaxMovement: 6, SightRange: 2, Cost: 30, VeteranBonus: 25},
		},
		Buildings: map[string]Building{
			"palace":      {ID: "palace", Name: "Palace", Cost: 0, Unique: true},
			"granary":     {ID: "granary", Name: "Granary", Cost: 60, FoodBonus: 25, Unique: true},
			"library":     {ID: "library", Name: "Library", Cost: 80, ScienceMult: 1.5, Unique: true},
			"marketplace": {ID: "marketplace", Name: "Marketplace", Cost: 80, GoldMult: 1.5, Unique: true},
			"city_walls":  {ID: "city_walls", Name: "City Walls", Cost: 60, Unique: true},
		},
		Techs: map[string]Tech{
			"bronze_working": {ID: "bronze_working", Name: "Bronze Working", Cost: 20},
			"pottery":        {ID: "pottery", Name: "Pottery", Cost: 20},
			"alphabet":       {ID: "alphabet", Name: "Alphabet", Cost: 20},
			"writing":        {ID: "writing", Name: "Writing", Cost: 30, Prereqs: []string{"alphabet"}},
			"currency":       {ID: "currency", Name: "Currency", Cost: 30, Prereqs: []string{"bronze_working"}},
			"horseback_riding": {ID: "horseback_riding", Name: "Horseback Riding", Cost: 25},
			"masonry":        {ID: "masonry", Name: "Masonry", Cost: 20},
			"the_wheel":      {ID: "the_wheel", Name: "The Wheel", Cost: 25},
			"monarchy":       {ID: "monarchy", Name: "Monarchy", Cost: 50, Prereqs: []string{"currency", "horseback_riding"}},
		},
		TerrainProps: map[string]map[TerrainProperty]int{
			"forest":   {PropFoliage: 80, PropWet: 40},
			"jungle":   {PropFoliage: 70, PropWet: 80, PropTropical: 90},
			"desert":   {PropDry: 95, PropTropical: 50},
			"tundra":   {PropFrozen: 70, PropCold: 90},
			"swamp":    {PropWet: 90, PropFoliage: 30},
			"plains":   {PropDry: 30},
			"grassland": {PropWet: 30},
		},
	}
}
