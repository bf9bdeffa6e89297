package query

// Users is the admin user listing.
var Users = Schema{
	Filters: map[string]Filter{
		"name":    {Column: "u.name", Match: Contains},
		"email":   {Column: "u.email", Match: Contains},
		"address": {Column: "u.address", Match: Contains},
		"role":    {Column: "u.role", Match: Equals},
	},
	Sorts: map[string]string{
		"name":       "u.name",
		"email":      "u.email",
		"address":    "u.address",
		"role":       "u.role",
		"rating":     "avg_rating",
		"created_at": "u.created_at",
	},
	DefaultOrder: "u.id",
}

// Stores is the admin store listing.
var Stores = Schema{
	Filters: map[string]Filter{
		"name":    {Column: "s.name", Match: Contains},
		"email":   {Column: "s.email", Match: Contains},
		"address": {Column: "s.address", Match: Contains},
	},
	Sorts: map[string]string{
		"name":          "s.name",
		"email":         "s.email",
		"address":       "s.address",
		"rating":        "avg_rating",
		"total_ratings": "total_ratings",
		"created_at":    "s.created_at",
	},
	DefaultOrder: "s.id",
}

// UserStores is the store listing shown to a rating user.
var UserStores = Schema{
	Filters: map[string]Filter{
		"name":    {Column: "s.name", Match: Contains},
		"address": {Column: "s.address", Match: Contains},
	},
	Sorts: map[string]string{
		"name":           "s.name",
		"address":        "s.address",
		"overall_rating": "overall_rating",
		"user_rating":    "user_rating",
		"total_ratings":  "total_ratings",
	},
	DefaultOrder: "s.id",
}
