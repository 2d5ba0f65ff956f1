package model

// CardType tags which shared card variant a message carries
type CardType string

const (
	CardTypePost     CardType = "post"
	CardTypeNews     CardType = "news"
	CardTypeShowcase CardType = "showcase"
	CardTypeUser     CardType = "user"
)

// SharedCard is the closed set of rich-preview attachments a message may
// embed. Each variant knows its tag and how to reduce itself to the flat
// preview shown in the conversation list.
type SharedCard interface {
	Type() CardType
	Preview(sender Participant) CardPreview
}

// CardPreview is the uniform preview derived from whichever card is present
type CardPreview struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

// SharedPost references a feed post
type SharedPost struct {
	ID     string       `json:"id"`
	Author *Participant `json:"author,omitempty"`
	// The backend has always sent the body under this misspelled key; it is
	// part of the wire contract now.
	Description string   `json:"discription"`
	Media       []string `json:"media,omitempty"`
}

func (p *SharedPost) Type() CardType { return CardTypePost }

// Preview uses the post author's name as the title, falling back to the
// message sender when the author block is absent
func (p *SharedPost) Preview(sender Participant) CardPreview {
	title := sender.Name
	if p.Author != nil && p.Author.Name != "" {
		title = p.Author.Name
	}
	var image string
	if len(p.Media) > 0 {
		image = p.Media[0]
	}
	return CardPreview{Title: title, Description: p.Description, ImageURL: image}
}

// SharedNews references a news item
type SharedNews struct {
	ID          string `json:"id"`
	Headline    string `json:"headline"`
	Source      string `json:"source"`
	BannerImage string `json:"bannerImage,omitempty"`
}

func (n *SharedNews) Type() CardType { return CardTypeNews }

func (n *SharedNews) Preview(Participant) CardPreview {
	return CardPreview{Title: n.Headline, Description: n.Source, ImageURL: n.BannerImage}
}

// SharedShowcase references a portfolio showcase entry
type SharedShowcase struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Tagline string   `json:"tagline"`
	Banner  string   `json:"banner,omitempty"`
	Images  []string `json:"images,omitempty"`
}

func (s *SharedShowcase) Type() CardType { return CardTypeShowcase }

// Preview falls back to the first gallery image when no dedicated banner is set
func (s *SharedShowcase) Preview(Participant) CardPreview {
	image := s.Banner
	if image == "" && len(s.Images) > 0 {
		image = s.Images[0]
	}
	return CardPreview{Title: s.Title, Description: s.Tagline, ImageURL: image}
}

// SharedUser references another user's profile
type SharedUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Headline string `json:"headline,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

func (u *SharedUser) Type() CardType { return CardTypeUser }

func (u *SharedUser) Preview(Participant) CardPreview {
	desc := u.Headline
	if desc == "" {
		desc = u.Bio
	}
	return CardPreview{Title: u.Name, Description: desc, ImageURL: u.Avatar}
}
