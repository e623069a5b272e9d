package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/supportkit/pathfinder/pkg/ports"
)

// ShopType selects the extraction vocabulary.
type ShopType string

const (
	ShopRestaurant ShopType = "restaurant"
	ShopMassage    ShopType = "massage"
)

// MenuItem is one line of an extracted menu or service list.
type MenuItem struct {
	Category    string `json:"category,omitempty"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

var menuSchema = &ports.Schema{
	Type: ports.TypeArray,
	Items: &ports.Schema{
		Type: ports.TypeObject,
		Properties: map[string]*ports.Schema{
			"category":    {Type: ports.TypeString},
			"name":        {Type: ports.TypeString},
			"price":       {Type: ports.TypeString},
			"duration":    {Type: ports.TypeString, Description: "Service length, massage shops only"},
			"description": {Type: ports.TypeString},
		},
		Required: []string{"name", "price"},
	},
}

// ExtractMenu reads the items of a menu photo.
func (s *Service) ExtractMenu(ctx context.Context, img ports.Image, shop ShopType) ([]MenuItem, error) {
	if shop == "" {
		shop = ShopRestaurant
	}
	if shop != ShopRestaurant && shop != ShopMassage {
		return nil, invalid("unknown shop type %q", shop)
	}
	if err := checkImage(img); err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf("Extract %s data precisely. Keep names and prices exactly as printed.", shop)

	var items []MenuItem
	err := s.generateJSON(ctx, ports.Request{Prompt: prompt, Images: []ports.Image{img}, Schema: menuSchema}, &items)
	return items, s.audit(ToolMenuExtraction, map[string]any{"mimeType": img.MIMEType, "shopType": shop}, err)
}

// MenuData is the price and description of an item as seen in one source.
type MenuData struct {
	Price       string `json:"price"`
	Description string `json:"description"`
}

// MenuCheckItem compares one item between the web menu and the photo.
type MenuCheckItem struct {
	ItemName        string      `json:"itemName"`
	Status          AuditStatus `json:"status"`
	MismatchDetails string      `json:"mismatchDetails"`
	WebData         *MenuData   `json:"webData,omitempty"`
	ImageData       *MenuData   `json:"imageData,omitempty"`
}

var menuDataSchema = &ports.Schema{
	Type: ports.TypeObject,
	Properties: map[string]*ports.Schema{
		"price":       {Type: ports.TypeString},
		"description": {Type: ports.TypeString},
	},
}

var menuCheckSchema = &ports.Schema{
	Type: ports.TypeArray,
	Items: &ports.Schema{
		Type: ports.TypeObject,
		Properties: map[string]*ports.Schema{
			"itemName":        {Type: ports.TypeString},
			"status":          {Type: ports.TypeString, Enum: []string{"PASS", "FAIL", "WARN"}},
			"mismatchDetails": {Type: ports.TypeString},
			"webData":         menuDataSchema,
			"imageData":       menuDataSchema,
		},
		Required: []string{"itemName", "status", "mismatchDetails"},
	},
}

// CrossCheckMenu compares a menu photo against the published web menu.
func (s *Service) CrossCheckMenu(ctx context.Context, webMenuURL string, img ports.Image) ([]MenuCheckItem, error) {
	if strings.TrimSpace(webMenuURL) == "" {
		return nil, invalid("web menu URL is required")
	}
	if err := checkImage(img); err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf("Compare menu image with %s. Return JSON array.", webMenuURL)

	var items []MenuCheckItem
	err := s.generateJSON(ctx, ports.Request{Prompt: prompt, Images: []ports.Image{img}, Schema: menuCheckSchema}, &items)
	return items, s.audit(ToolMenuCheck, map[string]any{"webMenuUrl": webMenuURL}, err)
}

func checkImage(img ports.Image) error {
	if len(img.Data) == 0 {
		return invalid("image is required")
	}
	if !strings.HasPrefix(img.MIMEType, "image/") {
		return invalid("unsupported image type %q", img.MIMEType)
	}
	return nil
}
