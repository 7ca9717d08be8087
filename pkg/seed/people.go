package seed

import "github.com/teamcal/teamcal/pkg/person"

// DefaultPeople is the demo roster.
func DefaultPeople() []person.Person {
	return []person.Person{
		{Id: "person-alexey-primechaev", Name: "Alexey Primechaev", Role: "Chief Executive Officer", Email: "alexey@warp.dev"},
		{Id: "person-rahul-sonwalkar", Name: "Rahul Sonwalkar", Role: "Head of Operations", Email: "rahul@warp.dev"},
		{Id: "person-jordan-smith", Name: "Jordan Smith", Role: "Staff Software Engineer", Email: "jordan@warp.dev"},
		{Id: "person-priya-patel", Name: "Priya Patel", Role: "Product Manager", Email: "priya@warp.dev"},
		{Id: "person-emily-chen", Name: "Emily Chen", Role: "Finance Lead", Email: "emily@warp.dev"},
		{Id: "person-lucas-martinez", Name: "Lucas Martinez", Role: "Design Director", Email: "lucas@warp.dev"},
		{Id: "person-sarah-kim", Name: "Sarah Kim", Role: "Customer Success Manager", Email: "sarah@warp.dev"},
		{Id: "person-david-wong", Name: "David Wong", Role: "DevOps Engineer", Email: "david@warp.dev"},
		{Id: "person-maria-garcia", Name: "Maria Garcia", Role: "Marketing Strategist", Email: "maria@warp.dev"},
		{Id: "person-tom-anderson", Name: "Tom Anderson", Role: "Security Engineer", Email: "tom@warp.dev"},
		{Id: "person-zoe-williams", Name: "Zoe Williams", Role: "Recruiting Partner", Email: "zoe@warp.dev"},
		{Id: "person-miguel-alvarez", Name: "Miguel Alvarez", Role: "Infrastructure Engineer", Email: "miguel@warp.dev"},
		{Id: "person-hannah-kim", Name: "Hannah Kim", Role: "Brand Strategist", Email: "hannah@warp.dev"},
		{Id: "person-marcus-johnson", Name: "Marcus Johnson", Role: "Data Scientist", Email: "marcus@warp.dev"},
		{Id: "person-sofia-rossi", Name: "Sofia Rossi", Role: "QA Lead", Email: "sofia@warp.dev"},
	}
}
