package rendering

import "github.com/jonathan/cv-builder/internal/types"

func fullRecord() *types.ResumeRecord {
	return &types.ResumeRecord{
		Title: "Backend Developer",
		PersonalInfo: types.PersonalInfo{
			FullName: "Camille Martin",
			Email:    "camille@example.com",
			Phone:    "06 12 34 56 78",
			Location: "Lyon",
			LinkedIn: "https://linkedin.com/in/camille",
			GitHub:   "https://github.com/camille",
		},
		Experience: []types.ExperienceEntry{
			{
				Title:        "Développeuse Go",
				Company:      "Acme",
				Location:     "Lyon",
				ContractType: types.ContractCDI,
				Period:       types.Period{StartDate: "2020-01-15", InProgress: true},
				Description:  "  APIs REST \n\nMigrations SQL",
			},
			{
				Title:       "Stagiaire",
				Company:     "Initech",
				Period:      types.Period{StartDate: "2019-02-01", EndDate: "2019-08-31"},
				Description: "",
			},
		},
		Education: []types.EducationEntry{{
			Degree: "Master Informatique",
			School: "Université de Lyon",
			Period: types.Period{StartDate: "2015-09", EndDate: "2017-06"},
		}},
		Skills: types.Skills{"Go", "SQL", "Go"},
	}
}
