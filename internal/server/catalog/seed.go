package catalog

// Seed is the initial content of a Store.
type Seed struct {
	Outreaches []Outreach
	Ministries []Ministry
	Media      []MediaItem
}

// DefaultSeed is the sample directory the development backend starts with.
func DefaultSeed() Seed {
	central := int64(1)
	return Seed{
		Outreaches: []Outreach{
			{
				ID:           1,
				Name:         "Flock Central",
				AddressLine1: "12 Market Street",
				PostCode:     "M1 1AA",
				City:         "Manchester",
				Country:      "United Kingdom",
				Phone:        "+44 161 000 0000",
				Coordinates:  &Coordinates{Lat: 53.4808, Lng: -2.2426},
				Services:     &ServiceTimes{Day: "Sunday", StartTime: "10:00", EndTime: "12:00"},
			},
			{
				ID:           2,
				Name:         "Flock Riverside",
				AddressLine1: "Unit 4, Riverside Park",
				AddressLine2: "Quay Road",
				PostCode:     "L3 4BB",
				City:         "Liverpool",
				Country:      "United Kingdom",
				Services:     &ServiceTimes{Day: "Sunday", StartTime: "16:00", EndTime: "18:00"},
			},
		},
		Ministries: []Ministry{
			{
				ID:           1,
				Name:         "Worship Ministry",
				Description:  "Join our worship team to lead the congregation in praise and worship.",
				Requirements: []string{"Musical ability", "Heart for worship", "Commitment to rehearsals"},
				OutreachID:   &central,
			},
			{
				ID:           2,
				Name:         "Children's Ministry",
				Description:  "Help nurture the faith of our youngest members through engaging activities and Bible lessons.",
				Requirements: []string{"Love for children", "Patient and caring", "Background check required"},
			},
			{
				ID:           3,
				Name:         "Production Ministry",
				Description:  "Run sound, lights and the livestream for our services.",
				Requirements: []string{"Technical interest", "Regular attendance"},
			},
		},
		Media: []MediaItem{
			{
				ID:             1,
				Title:          "Finding Peace in Troubled Times",
				Description:    "A message on trusting God when life is uncertain.",
				YoutubeVideoID: "dQw4w9WgXcQ",
				Category:       "Sunday Preachings",
				PublishedAt:    "2024-03-24",
			},
			{
				ID:             2,
				Title:          "The Power of Prayer",
				Description:    "Midweek study through Matthew 6.",
				YoutubeVideoID: "oHg5SJYRHA0",
				Category:       "Bible Study",
				PublishedAt:    "2024-03-20",
			},
			{
				ID:             3,
				Title:          "Walking in Faith",
				Description:    "An evening of worship and testimony.",
				YoutubeVideoID: "9bZkp7q19f0",
				Category:       "Evangelistic Nights",
				PublishedAt:    "2024-03-10",
			},
		},
	}
}
