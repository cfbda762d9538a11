// internal/common/zoho/crm.go
package zoho

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	httpclient "admissions-tracker/internal/common/http"
)

type CRMClient struct {
	oauthToken string
	baseURL    string
	client     *httpclient.Client
}

type Contact struct {
	ID          string `json:"id,omitempty"`
	Email       string `json:"Email"`
	FirstName   string `json:"First_Name,omitempty"`
	LastName    string `json:"Last_Name"`
	Phone       string `json:"Phone,omitempty"`
	Source      string `json:"Lead_Source,omitempty"`
	Status      string `json:"Application_Status,omitempty"`
	FormsCount  int    `json:"Forms_Submitted,omitempty"`
	LastForm    string `json:"Last_Form,omitempty"`
	Level       string `json:"Recommended_Level,omitempty"`
	Description string `json:"Description,omitempty"`
}

type mutationResponse struct {
	Data []struct {
		Code    string `json:"code"`
		Details struct {
			ID string `json:"id"`
		} `json:"details"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"data"`
}

func NewCRMClient(baseURL, oauthToken string, timeout time.Duration) *CRMClient {
	return &CRMClient{
		oauthToken: oauthToken,
		baseURL:    strings.TrimRight(baseURL, "/"),
		client:     httpclient.NewClient(timeout),
	}
}

func (c *CRMClient) headers() map[string]string {
	return map[string]string{"Authorization": "Zoho-oauthtoken " + c.oauthToken}
}

func (c *CRMClient) CreateContact(ctx context.Context, contact *Contact) (string, error) {
	var resp mutationResponse
	_, err := c.client.DoJSON(ctx, http.MethodPost, c.baseURL+"/Contacts", c.headers(),
		map[string]interface{}{"data": []Contact{*contact}}, &resp, http.StatusCreated, http.StatusOK)
	if err != nil {
		return "", fmt.Errorf("failed to create contact: %w", err)
	}
	if len(resp.Data) == 0 {
		return "", fmt.Errorf("no data in response")
	}
	if resp.Data[0].Status != "success" {
		return "", fmt.Errorf("contact creation failed: %s", resp.Data[0].Message)
	}
	return resp.Data[0].Details.ID, nil
}

func (c *CRMClient) UpdateContact(ctx context.Context, contactID string, contact *Contact) error {
	var resp mutationResponse
	_, err := c.client.DoJSON(ctx, http.MethodPut, fmt.Sprintf("%s/Contacts/%s", c.baseURL, url.PathEscape(contactID)), c.headers(),
		map[string]interface{}{"data": []Contact{*contact}}, &resp)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	if len(resp.Data) > 0 && resp.Data[0].Status != "success" {
		return fmt.Errorf("contact update failed: %s", resp.Data[0].Message)
	}
	return nil
}

// SearchContacts looks contacts up by exact email. Zoho answers 204 when
// nothing matches.
func (c *CRMClient) SearchContacts(ctx context.Context, email string) ([]Contact, error) {
	var result struct {
		Data []Contact `json:"data"`
	}
	endpoint := fmt.Sprintf("%s/Contacts/search?email=%s", c.baseURL, url.QueryEscape(email))
	_, err := c.client.DoJSON(ctx, http.MethodGet, endpoint, c.headers(), nil, &result, http.StatusOK, http.StatusNoContent)
	if err != nil {
		return nil, fmt.Errorf("failed to search contacts: %w", err)
	}
	return result.Data, nil
}

// UpsertContact updates the first contact matching contact.Email or creates
// one. It returns the contact id and whether it was created.
func (c *CRMClient) UpsertContact(ctx context.Context, contact *Contact) (string, bool, error) {
	found, err := c.SearchContacts(ctx, contact.Email)
	if err != nil {
		return "", false, err
	}
	if len(found) > 0 {
		id := found[0].ID
		return id, false, c.UpdateContact(ctx, id, contact)
	}
	id, err := c.CreateContact(ctx, contact)
	return id, true, err
}
