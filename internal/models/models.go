package models

import "time"

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

type Benefit struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Cost        int    `json:"cost"`
	UnlockKey   string `json:"-"`
}

type BenefitState struct {
	Benefit
	Unlocked bool `json:"unlocked"`
}

type UnlockSummary struct {
	Benefits      map[string]bool `json:"benefits"`
	TotalUnlocked int             `json:"total_unlocked"`
}

type DailyLoginResult struct {
	EarnedCoins  bool `json:"earned_coins"`
	CoinsAwarded int  `json:"coins_awarded"`
	TotalCoins   int  `json:"total_coins"`
}

type ViewResult struct {
	EarnedCoins  bool `json:"earned_coins"`
	CoinsAwarded int  `json:"coins_awarded"`
	TotalCoins   int  `json:"total_coins"`
	IsFirstView  bool `json:"is_first_view"`
}

type Stats struct {
	TotalCoins    int      `json:"total_coins"`
	ItemsViewed   int      `json:"items_viewed"`
	ViewedItemIDs []string `json:"viewed_item_ids"`
}

type CoinPack struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Coins int    `json:"coins"`
	Price string `json:"price"`
}

type PurchaseResult struct {
	Pack       CoinPack `json:"pack"`
	TotalCoins int      `json:"total_coins"`
}

type RedeemReason string

const (
	ReasonInsufficientFunds RedeemReason = "insufficient_funds"
	ReasonNotAuthenticated  RedeemReason = "not_authenticated"
	ReasonAlreadyUnlocked   RedeemReason = "already_unlocked"
	ReasonUnlockFailed      RedeemReason = "unlock_failed"
)

type RedeemResult struct {
	Success    bool         `json:"success"`
	Reason     RedeemReason `json:"reason,omitempty"`
	NewBalance *int         `json:"new_balance,omitempty"`
}

// Palette maps semantic color roles to color values.
type Palette struct {
	Name             string `json:"name"`
	Background       string `json:"background"`
	CardBackground   string `json:"card_background"`
	CardBorder       string `json:"card_border"`
	HeaderBorder     string `json:"header_border"`
	Title            string `json:"title"`
	Subtitle         string `json:"subtitle"`
	Category         string `json:"category"`
	Accent           string `json:"accent"`
	Error            string `json:"error"`
	ImagePlaceholder string `json:"image_placeholder"`
	StatusBar        string `json:"status_bar"`
	Text             string `json:"text"`
	Tint             string `json:"tint"`
	TabIconDefault   string `json:"tab_icon_default"`
	TabIconSelected  string `json:"tab_icon_selected"`
}
