package domain

type UserRole string

const (
	RoleClient     UserRole = "client"
	RoleFreelancer UserRole = "freelancer"
)

type User struct {
	ID       string   `json:"_id"`
	Username string   `json:"username"`
	FullName string   `json:"fullName"`
	Email    string   `json:"email,omitempty"`
	Role     UserRole `json:"role,omitempty"`
	Avatar   string   `json:"avatar,omitempty"`
	IsOnline bool     `json:"isOnline,omitempty"`
}

func (u User) EntityID() string { return u.ID }

type RequirementQuestion struct {
	Question string   `json:"question"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

// Gig is the subset of the catalog listing this core needs: the priced
// tiers a package snapshot is taken from, the requirement questions that
// decide the post-payment route, and the freelancer for display/search.
type Gig struct {
	ID           string                          `json:"_id"`
	Title        string                          `json:"title"`
	Pricing      map[PackageTier]PackageSnapshot `json:"pricing"`
	Requirements []RequirementQuestion           `json:"requirements,omitempty"`
	Freelancer   Ref[User]                       `json:"freelancer"`
	IsActive     bool                            `json:"isActive"`
}

func (g Gig) EntityID() string { return g.ID }
