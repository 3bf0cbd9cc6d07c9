package common

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	DefaultLimit  = 100
	MaxLimit      = 1000
	DefaultOffset = 0
	OrderDesc     = "DESC"
	OrderAsc      = "ASC"
)

type CursorType int

const (
	CursorTypeOffset CursorType = iota + 1 // 1: traditional offset-based pagination
	CursorTypeSlot                         // 2: (slot, addr) keyset pagination
)

// String method for debugging and logging support
func (ct CursorType) String() string {
	switch ct {
	case CursorTypeOffset:
		return "offset"
	case CursorTypeSlot:
		return "slot"
	default:
		return "unknown"
	}
}

// SlotCursor is the keyset position of a row ordered by (slot, addr).
type SlotCursor struct {
	Slot int64  `json:"slot"`
	Addr string `json:"addr"`
}

type Pagination struct {
	Limit      int
	Offset     int
	Order      string
	CursorType CursorType
	Cursor     SlotCursor
}

// UseCursor determines whether cursor-based pagination is enabled
func (p *Pagination) UseCursor() bool {
	return p.CursorType == CursorTypeSlot
}

type PaginationResponse struct {
	PreviousKey *string `json:"previous_key" extensions:"x-order:0"`
	NextKey     *string `json:"next_key" extensions:"x-order:1"`
	Total       string  `json:"total" extensions:"x-order:2"`
}

func ParsePagination(c *fiber.Ctx) (*Pagination, error) {
	limit := c.QueryInt("pagination.limit", DefaultLimit)
	if limit < 1 || limit > MaxLimit {
		return nil, fmt.Errorf("pagination.limit must be between 1 and %d", MaxLimit)
	}

	key := c.Query("pagination.key")
	offset := c.QueryInt("pagination.offset", DefaultOffset)
	if offset < 0 {
		return nil, errors.New("pagination.offset cannot be negative")
	}

	pagination := &Pagination{
		Limit:      limit,
		Offset:     offset,
		Order:      getOrder(c),
		CursorType: CursorTypeOffset,
	}

	if key != "" {
		if err := parsePaginationKey(key, pagination); err != nil {
			return nil, err
		}
	}

	return pagination, nil
}

// parsePaginationKey accepts either a base64 offset or a base64 json SlotCursor.
func parsePaginationKey(key string, pagination *Pagination) error {
	decoded, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		return errors.New("pagination.key must be a valid base64 encoded string")
	}

	if bytes.HasPrefix(bytes.TrimSpace(decoded), []byte("{")) {
		var cursor SlotCursor
		if err := json.Unmarshal(decoded, &cursor); err != nil || cursor.Addr == "" {
			return errors.New("invalid pagination.key format")
		}
		pagination.Cursor = cursor
		pagination.CursorType = CursorTypeSlot
		pagination.Offset = 0
		return nil
	}

	parsedOffset, err := strconv.Atoi(string(decoded))
	if err != nil || parsedOffset < 0 {
		return errors.New("pagination.key must decode to a nonnegative integer")
	}
	pagination.Offset = parsedOffset
	return nil
}

func getOrder(c *fiber.Ctx) string {
	reverse := c.QueryBool("pagination.reverse", true)
	if reverse {
		return OrderDesc
	}
	return OrderAsc
}

func (p *Pagination) OrderBy(keys ...string) string {
	var parts []string
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", key, p.Order))
	}
	return strings.Join(parts, ", ")
}

// ApplyBySlot orders query by (slot, addr) and applies either the keyset
// cursor or the offset.
func (p *Pagination) ApplyBySlot(query *gorm.DB) *gorm.DB {
	if p.UseCursor() {
		if p.Order == OrderDesc {
			query = query.Where("((slot < ?) OR (slot = ? AND addr < ?))", p.Cursor.Slot, p.Cursor.Slot, p.Cursor.Addr)
		} else {
			query = query.Where("((slot > ?) OR (slot = ? AND addr > ?))", p.Cursor.Slot, p.Cursor.Slot, p.Cursor.Addr)
		}
		return query.Order(p.OrderBy("slot", "addr")).Limit(p.Limit)
	}
	return query.Order(p.OrderBy("slot", "addr")).Offset(p.Offset).Limit(p.Limit)
}

func (p *Pagination) ToResponse(total int64) (res PaginationResponse) {
	if total > int64(p.Offset+p.Limit) {
		nextKey := base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(p.Offset + p.Limit)))
		res.NextKey = &nextKey
	}
	// if offset is greater than or equal to limit, previousKey can be set
	if p.Offset > 0 && p.Offset >= p.Limit {
		previousKey := base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(p.Offset - p.Limit)))
		res.PreviousKey = &previousKey
	}
	res.Total = fmt.Sprintf("%d", total)
	return
}

// ToResponseWithLast builds the page response for a keyset page. A full page
// yields a next key pointing after last.
func (p *Pagination) ToResponseWithLast(total int64, count int, last *SlotCursor) PaginationResponse {
	if !p.UseCursor() {
		return p.ToResponse(total)
	}

	res := PaginationResponse{Total: fmt.Sprintf("%d", total)}
	if last != nil && count == p.Limit {
		nextKey := EncodeSlotCursor(*last)
		res.NextKey = &nextKey
	}
	return res
}

// EncodeSlotCursor returns the pagination.key that resumes after cursor.
func EncodeSlotCursor(cursor SlotCursor) string {
	cursorBytes, _ := json.Marshal(cursor)
	return base64.StdEncoding.EncodeToString(cursorBytes)
}
