package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ArchiveSection names one sub-collection of a semester archive.
type ArchiveSection string

const (
	ArchiveSectionProfiles     ArchiveSection = "profiles"
	ArchiveSectionProjects     ArchiveSection = "projects"
	ArchiveSectionPosts        ArchiveSection = "posts"
	ArchiveSectionLeaderboard  ArchiveSection = "leaderboard"
	ArchiveSectionTransactions ArchiveSection = "transactions"
	ArchiveSectionBounties     ArchiveSection = "bounties"
)

// ArchiveSections lists every readable section in display order.
var ArchiveSections = []ArchiveSection{
	ArchiveSectionProfiles,
	ArchiveSectionProjects,
	ArchiveSectionPosts,
	ArchiveSectionLeaderboard,
	ArchiveSectionTransactions,
	ArchiveSectionBounties,
}

// Valid reports whether the section is known.
func (s ArchiveSection) Valid() bool {
	for _, known := range ArchiveSections {
		if s == known {
			return true
		}
	}
	return false
}

// ArchiveStats is computed once when the archive is created and never recomputed.
type ArchiveStats struct {
	TotalProfiles            int             `json:"totalProfiles"`
	TotalProjects            int             `json:"totalProjects"`
	TotalPosts               int             `json:"totalPosts"`
	TotalComments            int             `json:"totalComments"`
	TotalTransactions        int             `json:"totalTransactions"`
	TotalBounties            int             `json:"totalBounties"`
	TotalCritCoinTransferred decimal.Decimal `json:"totalCritCoinTransferred"`
}

// LiveCounts summarises the current live collections.
type LiveCounts struct {
	Profiles     int `db:"profiles" json:"profiles"`
	Projects     int `db:"projects" json:"projects"`
	Posts        int `db:"posts" json:"posts"`
	Comments     int `db:"comments" json:"comments"`
	Transactions int `db:"transactions" json:"transactions"`
	Bounties     int `db:"bounties" json:"bounties"`
}

// ArchivedProfile is a frozen copy of a profile.
type ArchivedProfile struct {
	ID            string    `json:"id"`
	WalletAddress string    `json:"walletAddress"`
	Name          string    `json:"name"`
	Photo         string    `json:"photo"`
	Bio           string    `json:"bio"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ArchivedProject is a frozen copy of a project with its author's display name.
type ArchivedProject struct {
	ID            string          `json:"id"`
	WalletAddress string          `json:"walletAddress"`
	AuthorName    string          `json:"authorName"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Slot          int             `json:"slot"`
	Link          string          `json:"link"`
	Image         string          `json:"image"`
	TotalReceived decimal.Decimal `json:"totalReceived"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ArchivedReply is a frozen reply to a comment.
type ArchivedReply struct {
	ID            string    `json:"id"`
	WalletAddress string    `json:"walletAddress"`
	AuthorName    string    `json:"authorName"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ArchivedComment is a frozen top-level comment with its replies.
type ArchivedComment struct {
	ID            string          `json:"id"`
	WalletAddress string          `json:"walletAddress"`
	AuthorName    string          `json:"authorName"`
	Content       string          `json:"content"`
	CreatedAt     time.Time       `json:"createdAt"`
	Replies       []ArchivedReply `json:"replies"`
}

// ArchivedPost is a frozen forum post with its comment tree.
type ArchivedPost struct {
	ID            string            `json:"id"`
	WalletAddress string            `json:"walletAddress"`
	AuthorName    string            `json:"authorName"`
	Title         string            `json:"title"`
	Content       string            `json:"content"`
	CreatedAt     time.Time         `json:"createdAt"`
	Comments      []ArchivedComment `json:"comments"`
}

// ArchivedTransaction is a frozen transfer with resolved sender and recipient names.
type ArchivedTransaction struct {
	ID         string          `json:"id"`
	FromWallet string          `json:"fromWallet"`
	FromName   string          `json:"fromName"`
	ToWallet   string          `json:"toWallet"`
	ToName     string          `json:"toName"`
	Amount     decimal.Decimal `json:"amount"`
	TxHash     string          `json:"txHash"`
	Memo       string          `json:"memo"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// ArchivedBounty is a frozen bounty.
type ArchivedBounty struct {
	ID            string          `json:"id"`
	WalletAddress string          `json:"walletAddress"`
	CreatorName   string          `json:"creatorName"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Reward        decimal.Decimal `json:"reward"`
	Status        BountyStatus    `json:"status"`
	ClaimedBy     string          `json:"claimedBy,omitempty"`
	ClaimedByName string          `json:"claimedByName,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// LeaderboardEntry ranks one project within its slot.
type LeaderboardEntry struct {
	Rank          int             `json:"rank"`
	ProjectID     string          `json:"projectId"`
	Title         string          `json:"title"`
	WalletAddress string          `json:"walletAddress"`
	AuthorName    string          `json:"authorName"`
	TotalReceived decimal.Decimal `json:"totalReceived"`
}

// LeaderboardSlot holds the top projects of one slot.
type LeaderboardSlot struct {
	Slot    int                `json:"slot"`
	Entries []LeaderboardEntry `json:"entries"`
}

// SemesterArchiveSummary is the list view of an archive without its sections.
type SemesterArchiveSummary struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	ArchivedAt  time.Time    `json:"archivedAt"`
	ArchivedBy  string       `json:"archivedBy"`
	Stats       ArchiveStats `json:"stats"`
}

// SemesterArchive is a named, immutable snapshot of one semester. Only Name
// and Description may change after creation.
type SemesterArchive struct {
	SemesterArchiveSummary
	Profiles     []ArchivedProfile     `json:"profiles"`
	Projects     []ArchivedProject     `json:"projects"`
	Posts        []ArchivedPost        `json:"posts"`
	Transactions []ArchivedTransaction `json:"transactions"`
	Bounties     []ArchivedBounty      `json:"bounties"`
	Leaderboard  []LeaderboardSlot     `json:"leaderboard"`
}

// Section returns the named sub-collection, or nil when the section is unknown.
func (a *SemesterArchive) Section(section ArchiveSection) interface{} {
	if a == nil {
		return nil
	}
	switch section {
	case ArchiveSectionProfiles:
		return a.Profiles
	case ArchiveSectionProjects:
		return a.Projects
	case ArchiveSectionPosts:
		return a.Posts
	case ArchiveSectionLeaderboard:
		return a.Leaderboard
	case ArchiveSectionTransactions:
		return a.Transactions
	case ArchiveSectionBounties:
		return a.Bounties
	default:
		return nil
	}
}

// LiveSnapshot is a consistent read of every live collection.
type LiveSnapshot struct {
	Profiles     []Profile
	Projects     []Project
	Posts        []Post
	Comments     []Comment
	Transactions []Transaction
	Bounties     []Bounty
}

// ClearedCounts reports how many rows each collection lost during a clear.
type ClearedCounts struct {
	Profiles     int64 `json:"profiles"`
	Projects     int64 `json:"projects"`
	Posts        int64 `json:"posts"`
	Comments     int64 `json:"comments"`
	Transactions int64 `json:"transactions"`
	Bounties     int64 `json:"bounties"`
}

// ArchiveExportFormat selects the rendered file type for section exports.
type ArchiveExportFormat string

const (
	ArchiveExportCSV ArchiveExportFormat = "csv"
	ArchiveExportPDF ArchiveExportFormat = "pdf"
)
