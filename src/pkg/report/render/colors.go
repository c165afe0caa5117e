package render

import "statement-analyzer/src/pkg/report/layout"

/*
Colors maps layout color roles to RGB values.
*/
type Colors struct {
	Text            RGB `json:"text"`
	Inverse         RGB `json:"inverse"`
	Muted           RGB `json:"muted"`
	Accent          RGB `json:"accent"`
	Stripe          RGB `json:"stripe"`
	SecondaryAccent RGB `json:"secondary_accent"`
	Success         RGB `json:"success"`
}

func DefaultColors() Colors {
	return Colors{
		Text:            RGB{0, 0, 0},
		Inverse:         RGB{255, 255, 255},
		Muted:           RGB{150, 150, 150},
		Accent:          RGB{0, 122, 255},
		Stripe:          RGB{245, 245, 247},
		SecondaryAccent: RGB{175, 82, 222},
		Success:         RGB{52, 199, 89},
	}
}

func (c Colors) For(role layout.ColorRole) RGB {
	switch role {
	case layout.ColorInverse:
		return c.Inverse
	case layout.ColorMuted:
		return c.Muted
	case layout.ColorAccent:
		return c.Accent
	case layout.ColorStripe:
		return c.Stripe
	case layout.ColorSecondaryAccent:
		return c.SecondaryAccent
	case layout.ColorSuccess:
		return c.Success
	default:
		return c.Text
	}
}
