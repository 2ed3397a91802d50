package webapp

// ODKForm is one data-collection form exposed on the forms tab
type ODKForm struct {
	ID             string
	Title          string
	Status         string // active | draft | closed
	FormURL        string
	LastSubmission string
}

// ODKProject groups forms under a field project
type ODKProject struct {
	ID    string
	Name  string
	Forms []ODKForm
}

// ODKDirectory serves the data-collection projects shown on the forms tab.
// The directory is a fixed in-process catalog until an ODK Central
// deployment is wired in.
type ODKDirectory struct {
	projects []ODKProject
}

// NewODKDirectory builds the catalog
func NewODKDirectory() *ODKDirectory {
	return &ODKDirectory{
		projects: []ODKProject{
			{
				ID:   "1",
				Name: "Agriculture Survey 2025",
				Forms: []ODKForm{
					{
						ID:      "form1",
						Title:   "Field Assessment",
						Status:  "active",
						FormURL: "https://enketo.ona.io/x/yQgZ6JLC",
					},
				},
			},
		},
	}
}

// Projects lists all projects
func (d *ODKDirectory) Projects() []ODKProject {
	return d.projects
}

// FormsCount counts forms across all projects
func (d *ODKDirectory) FormsCount() int {
	n := 0
	for _, p := range d.projects {
		n += len(p.Forms)
	}
	return n
}
