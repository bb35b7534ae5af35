package tests

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"

	"barrier_registry/registry/schema"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
)

type httpTestRequest struct {
	api http.Handler

	method   string
	endpoint string
	json     interface{}
	body     io.Reader
}

func newHttpTestRequest(api http.Handler, method, endpoint string) *httpTestRequest {
	return &httpTestRequest{
		api:      api,
		method:   method,
		endpoint: endpoint,
		json:     nil,
		body:     nil,
	}
}

func (r *httpTestRequest) Json(data interface{}) *httpTestRequest {
	r.json = data
	return r
}

// response body will be parsed into result, passing nil indicates that no result is returned.
func (r *httpTestRequest) Do(result interface{}) error {
	if r.json != nil {
		body := new(bytes.Buffer)
		err := json.NewEncoder(body).Encode(r.json)
		if err != nil {
			return fmt.Errorf("error encoding json body for endpoint %v: %w", r.endpoint, err)
		}
		r.body = body
	}

	req := httptest.NewRequest(r.method, r.endpoint, r.body)

	w := httptest.NewRecorder()

	r.api.ServeHTTP(w, req)

	res := w.Result()
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %v", ErrInvalidRequest, w.Body.String())
	case http.StatusNotFound:
		return fmt.Errorf("%w: %v", ErrNotFound, w.Body.String())
	case http.StatusConflict:
		return fmt.Errorf("%w: %v", ErrConflict, w.Body.String())
	}

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		return fmt.Errorf("%v request to endpoint %v returned status %d, content '%v'", r.method, r.endpoint, res.StatusCode, w.Body.String())
	}

	if result != nil {
		err := json.NewDecoder(res.Body).Decode(result)
		if err != nil {
			return fmt.Errorf("error parsing %v response from endpoint %v: %w", r.method, r.endpoint, err)
		}
	}

	return nil
}

type client struct {
	api http.Handler
}

func (c *client) Get(endpoint string) *httpTestRequest {
	return newHttpTestRequest(c.api, "GET", endpoint)
}

func (c *client) Post(endpoint string) *httpTestRequest {
	return newHttpTestRequest(c.api, "POST", endpoint)
}

func (c *client) Delete(endpoint string) *httpTestRequest {
	return newHttpTestRequest(c.api, "DELETE", endpoint)
}

func (c *client) listEmployees() ([]schema.Employee, error) {
	var employees []schema.Employee
	err := c.Get("/employee").Do(&employees)
	return employees, err
}

func (c *client) getEmployee(code string) (schema.Employee, error) {
	var employee schema.Employee
	err := c.Get("/employee/" + code).Do(&employee)
	return employee, err
}

func (c *client) searchEmployees(params url.Values) ([]schema.Employee, error) {
	var employees []schema.Employee
	err := c.Get("/employee/search?" + params.Encode()).Do(&employees)
	return employees, err
}

type createEntityRequest struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	ApproverCode *string `json:"approver_code"`
}

func (c *client) createDeal(code, name string, approverCode *string) (schema.Deal, error) {
	var deal schema.Deal
	err := c.Post("/deal").Json(createEntityRequest{Code: code, Name: name, ApproverCode: approverCode}).Do(&deal)
	return deal, err
}

func (c *client) listDeals() ([]schema.Deal, error) {
	var deals []schema.Deal
	err := c.Get("/deal").Do(&deals)
	return deals, err
}

type dealResponse struct {
	Deal    schema.Deal         `json:"deal"`
	Members []schema.DealMember `json:"members"`
}

func (c *client) getDeal(code string) (dealResponse, error) {
	var res dealResponse
	err := c.Get("/deal/" + code).Do(&res)
	return res, err
}

func (c *client) deleteDeal(code string) error {
	return c.Delete("/deal/" + code).Do(nil)
}

type addDealMemberRequest struct {
	MemberCode string `json:"member_code"`
	Role       string `json:"role"`
}

func (c *client) addDealMember(code, memberCode, role string) error {
	return c.Post("/deal/"+code+"/member").Json(addDealMemberRequest{MemberCode: memberCode, Role: role}).Do(nil)
}

type dealMemberRole struct {
	MemberCode string `json:"member_code"`
	Role       string `json:"role"`
}

func (c *client) getDealMember(code, memberCode string) (dealMemberRole, error) {
	var res dealMemberRole
	err := c.Get("/deal/" + code + "/member/" + memberCode).Do(&res)
	return res, err
}

func (c *client) createBarrier(code, name string, approverCode *string) (schema.Barrier, error) {
	var barrier schema.Barrier
	err := c.Post("/barrier").Json(createEntityRequest{Code: code, Name: name, ApproverCode: approverCode}).Do(&barrier)
	return barrier, err
}

func (c *client) listBarriers() ([]schema.Barrier, error) {
	var barriers []schema.Barrier
	err := c.Get("/barrier").Do(&barriers)
	return barriers, err
}

func (c *client) searchBarriers(name string) ([]schema.Barrier, error) {
	var barriers []schema.Barrier
	params := url.Values{}
	if name != "" {
		params.Set("name", name)
	}
	err := c.Get("/barrier/search?" + params.Encode()).Do(&barriers)
	return barriers, err
}

type barrierResponse struct {
	Barrier schema.Barrier         `json:"barrier"`
	Members []schema.BarrierMember `json:"members"`
}

func (c *client) getBarrier(code string) (barrierResponse, error) {
	var res barrierResponse
	err := c.Get("/barrier/" + code).Do(&res)
	return res, err
}

func (c *client) deleteBarrier(code string) error {
	return c.Delete("/barrier/" + code).Do(nil)
}

type addBarrierMemberRequest struct {
	MemberCode string  `json:"member_code"`
	OnDate     string  `json:"on_date"`
	OffDate    *string `json:"off_date"`
	Status     string  `json:"status"`
	DealCode   *string `json:"deal_code"`
	Role       *string `json:"role"`
}

func (c *client) addBarrierMember(code string, member addBarrierMemberRequest) error {
	return c.Post("/barrier/"+code+"/member").Json(member).Do(nil)
}

type barrierStatusEntry struct {
	BarrierCode string  `json:"barrier_code"`
	BarrierName string  `json:"barrier_name"`
	OnDate      string  `json:"on_date"`
	OffDate     *string `json:"off_date"`
	Status      string  `json:"status"`
	DealCode    *string `json:"deal_code"`
}

func (c *client) barrierStatus(memberCode string) ([]barrierStatusEntry, error) {
	var entries []barrierStatusEntry
	err := c.Get("/barrier/status/" + memberCode).Do(&entries)
	return entries, err
}
