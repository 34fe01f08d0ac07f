package api

// GuildStats defines a public type used by dashauth APIs.
//
// GuildStats instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type GuildStats struct {
	GuildName string `json:"guildName"`
	GuildIcon string `json:"guildIcon"`
	GuildID   string `json:"guildId"`
	OwnerID   string `json:"ownerId"`

	TotalMembers  int `json:"totalMembers"`
	OnlineMembers int `json:"onlineMembers"`
	BotMembers    int `json:"botMembers"`
	HumanMembers  int `json:"humanMembers"`

	TotalChannels int `json:"totalChannels"`
	TextChannels  int `json:"textChannels"`
	VoiceChannels int `json:"voiceChannels"`
	Categories    int `json:"categories"`

	TotalRoles int `json:"totalRoles"`

	VerificationLevel        int `json:"verificationLevel"`
	PremiumTier              int `json:"premiumTier"`
	PremiumSubscriptionCount int `json:"premiumSubscriptionCount"`

	CreatedAt   string `json:"createdAt"`
	BotJoinedAt string `json:"botJoinedAt,omitempty"`

	TicketCount       int `json:"ticketCount"`
	AutoResponseCount int `json:"autoResponseCount"`
	OpenTickets       int `json:"openTickets"`
}

// Permission defines a public type used by dashauth APIs.
type Permission struct {
	ID          int      `json:"id"`
	Type        string   `json:"type"`
	TargetID    string   `json:"targetId"`
	TargetName  string   `json:"targetName"`
	Permissions []string `json:"permissions"`
	CreatedAt   string   `json:"createdAt"`
}

// AddPermissionRequest defines a public type used by dashauth APIs.
type AddPermissionRequest struct {
	Type        string   `json:"type"`
	TargetID    string   `json:"targetId"`
	TargetName  string   `json:"targetName"`
	Permissions []string `json:"permissions"`
}

// AutoResponse defines a public type used by dashauth APIs.
type AutoResponse struct {
	ID               int    `json:"id"`
	TriggerWord      string `json:"trigger_word"`
	ResponseText     string `json:"response_text"`
	IsEmbed          bool   `json:"is_embed"`
	EmbedTitle       string `json:"embed_title,omitempty"`
	EmbedDescription string `json:"embed_description,omitempty"`
	EmbedColor       int    `json:"embed_color,omitempty"`
	GuildID          string `json:"guild_id"`
	CreatedAt        string `json:"created_at"`
}

// TicketCategory defines a public type used by dashauth APIs.
type TicketCategory struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Emoji       string `json:"emoji,omitempty"`
	IsActive    bool   `json:"is_active"`
	GuildID     string `json:"guild_id"`
}

// Role defines a public type used by dashauth APIs.
type Role struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    int    `json:"color"`
	Position int    `json:"position"`
	Managed  bool   `json:"managed"`
}

// Member defines a public type used by dashauth APIs.
type Member struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar,omitempty"`
}

// Feature defines a public type used by dashauth APIs.
type Feature struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Enabled     bool   `json:"enabled"`
}
