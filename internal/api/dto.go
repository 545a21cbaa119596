package api

import "github.com/emel-04/FlatmateHarmony/internal/models"

// Request bodies.

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createHouseholdRequest struct {
	OwnerName string `json:"ownerName"`
	Address   string `json:"address"`
	Rent      int64  `json:"rent"`
}

type joinHouseholdRequest struct {
	HomeCode string `json:"homeCode"`
	Name     string `json:"name"`
}

type addMemberRequest struct {
	Name string `json:"name"`
}

type transactionRequest struct {
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	PayerID     string `json:"payerId"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

type paymentRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

type addShoppingItemRequest struct {
	Name string `json:"name"`
	Note string `json:"note,omitempty"`
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

// Response bodies. Amounts are integer minor currency units, timestamps
// Unix milliseconds, matching the storage representation.

type userResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type householdResponse struct {
	ID        string `json:"id"`
	Address   string `json:"address"`
	Rent      int64  `json:"rent"`
	OwnerID   string `json:"ownerId"`
	HomeCode  string `json:"homeCode"`
	CreatedAt int64  `json:"createdAt"`
}

type memberResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	UserID   string `json:"userId,omitempty"`
	JoinedAt int64  `json:"joinedAt"`
}

type joinResponse struct {
	Household householdResponse `json:"household"`
	Member    memberResponse    `json:"member"`
}

type transferResponse struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

type snapshotResponse struct {
	Members        []string           `json:"members"`
	TotalAmount    int64              `json:"totalAmount"`
	PerMemberShare int64              `json:"perMemberShare"`
	Shares         map[string]int64   `json:"shares"`
	Paid           map[string]int64   `json:"paid"`
	Balances       map[string]int64   `json:"balances"`
	Transfers      []transferResponse `json:"transfers"`
}

type transactionResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	PayerID     string `json:"payerId"`
	CreatedAt   int64  `json:"createdAt"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

type paymentResponse struct {
	ID        string `json:"id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Amount    int64  `json:"amount"`
	Timestamp int64  `json:"timestamp"`
}

type choreAssignmentResponse struct {
	TaskName   string `json:"taskName"`
	TaskIcon   string `json:"taskIcon"`
	MemberID   string `json:"memberId"`
	MemberName string `json:"memberName"`
}

type choreDayResponse struct {
	Date        string                    `json:"date"`
	Assignments []choreAssignmentResponse `json:"assignments"`
}

type shoppingItemResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Note      string `json:"note,omitempty"`
	AddedBy   string `json:"addedBy,omitempty"`
	Bought    bool   `json:"bought"`
	CreatedAt int64  `json:"createdAt"`
}

type messageResponse struct {
	ID         string `json:"id"`
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	Content    string `json:"content"`
	Timestamp  int64  `json:"timestamp"`
}

type idResponse struct {
	ID string `json:"id"`
}

// Converters.

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName}
}

func toHouseholdResponse(h *models.Household) householdResponse {
	return householdResponse{
		ID:        h.ID,
		Address:   h.Address,
		Rent:      h.Rent,
		OwnerID:   h.OwnerID,
		HomeCode:  h.HomeCode,
		CreatedAt: h.CreatedAt,
	}
}

func toMemberResponse(m models.Member) memberResponse {
	return memberResponse{ID: m.ID, Name: m.Name, UserID: m.UserID, JoinedAt: m.JoinedAt}
}

func toSnapshotResponse(s *models.Snapshot) snapshotResponse {
	transfers := make([]transferResponse, len(s.Transfers))
	for i, t := range s.Transfers {
		transfers[i] = transferResponse{From: t.From, To: t.To, Amount: t.Amount}
	}
	return snapshotResponse{
		Members:        s.Members,
		TotalAmount:    s.TotalAmount,
		PerMemberShare: s.PerMemberShare,
		Shares:         s.Shares,
		Paid:           s.Paid,
		Balances:       s.Balances,
		Transfers:      transfers,
	}
}

func toTransactionResponse(t models.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Description: t.Description,
		Amount:      t.Amount,
		PayerID:     t.PayerID,
		CreatedAt:   t.CreatedAt,
		ImageURL:    t.ImageURL,
	}
}

func toPaymentResponse(p *models.Payment) paymentResponse {
	return paymentResponse{ID: p.ID, From: p.From, To: p.To, Amount: p.Amount, Timestamp: p.Timestamp}
}

func toChoreAssignmentResponse(a models.ChoreAssignment) choreAssignmentResponse {
	return choreAssignmentResponse{
		TaskName:   a.Task.Name,
		TaskIcon:   a.Task.Icon,
		MemberID:   a.MemberID,
		MemberName: a.MemberName,
	}
}

func toChoreAssignmentResponses(as []models.ChoreAssignment) []choreAssignmentResponse {
	out := make([]choreAssignmentResponse, len(as))
	for i, a := range as {
		out[i] = toChoreAssignmentResponse(a)
	}
	return out
}

func toChoreDayResponse(d models.ChoreDay) choreDayResponse {
	return choreDayResponse{Date: d.Date, Assignments: toChoreAssignmentResponses(d.Assignments)}
}

func toShoppingItemResponse(it models.ShoppingItem) shoppingItemResponse {
	return shoppingItemResponse{
		ID:        it.ID,
		Name:      it.Name,
		Note:      it.Note,
		AddedBy:   it.AddedBy,
		Bought:    it.Bought,
		CreatedAt: it.CreatedAt,
	}
}

func toMessageResponse(m models.ChatMessage) messageResponse {
	return messageResponse{
		ID:         m.ID,
		SenderID:   m.SenderID,
		SenderName: m.SenderName,
		Content:    m.Content,
		Timestamp:  m.Timestamp,
	}
}
