package services

import "github.com/citynect/property-backend/models"

// hiddenContact replaces name and number on listings the user has not paid to reveal.
const hiddenContact = "0"

// Viewer is everything enrichment needs to know about the requesting user.
type Viewer struct {
	Saved     map[string]bool
	Contacted map[string]bool
	Statuses  map[string]string
	Remarks   map[string]string
	Excluded  map[string]bool
	// Privileged viewers see a synthesized number instead of the real one.
	Privileged   bool
	RandomNumber func() string
}

func newViewer(user *models.User, statuses, remarks map[string]string, excluded map[string]bool) Viewer {
	return Viewer{
		Saved:     toSet(user.SavedPropertyIDs),
		Contacted: toSet(user.ContactedPropertyIDs),
		Statuses:  statuses,
		Remarks:   remarks,
		Excluded:  excluded,
	}
}

// Enrich annotates properties for one viewer and drops the ones the viewer
// has marked with an excluded status. Input order is preserved.
func Enrich(properties []models.Property, v Viewer) []models.PropertyView {
	views := make([]models.PropertyView, 0, len(properties))
	for _, p := range properties {
		id := p.ID.Hex()

		status := v.Statuses[id]
		if status == "" {
			status = models.StatusActive
		}
		if v.Excluded[status] {
			continue
		}

		view := models.PropertyView{
			Property: p,
			Status:   status,
			Name:     hiddenContact,
			Number:   hiddenContact,
		}
		if remark, ok := v.Remarks[id]; ok {
			r := remark
			view.Remark = &r
		}
		if v.Saved[id] {
			view.IsSaved = 1
		}
		if v.Contacted[id] {
			view.Name = p.Name
			view.Number = p.Number
			if view.Number == "" {
				view.Number = hiddenContact
			}
			if v.Privileged && v.RandomNumber != nil {
				view.Number = v.RandomNumber()
			}
		}
		views = append(views, view)
	}
	return views
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
