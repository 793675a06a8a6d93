package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"carpool/internal/domain/models"
)

// DocsService renders the booking e-ticket PDF.
type DocsService struct {
	Bookings BookingService
}

// BookingETicket builds the e-ticket for a booking the caller owns. Returns
// the PDF bytes and a suggested filename.
func (s DocsService) BookingETicket(ctx context.Context, bookingID, callerID string) ([]byte, string, error) {
	conf, err := s.Bookings.Get(ctx, bookingID, callerID)
	if err != nil {
		return nil, "", err
	}

	pdf, err := buildETicketPDF(conf)
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("eticket-%s.pdf", conf.Booking.ID), nil
}

func buildETicketPDF(conf models.BookingConfirmation) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Carpool E-Ticket", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	driverName := "-"
	driverPhone := "-"
	if conf.Driver != nil {
		driverName = safe(conf.Driver.FullName, "-")
		driverPhone = safe(conf.Driver.Phone, "-")
	}

	price := "-"
	if conf.Trip.Price != nil {
		price = fmt.Sprintf("%.2f", *conf.Trip.Price)
	}

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking      : %s", conf.Booking.ID),
		fmt.Sprintf("Route        : %s -> %s", safe(conf.Trip.Origin, "-"), safe(conf.Trip.Destination, "-")),
		fmt.Sprintf("Departure    : %s", conf.Trip.DepartureAt.Format("2006-01-02 15:04")),
		fmt.Sprintf("Driver       : %s", driverName),
		fmt.Sprintf("Driver phone : %s", driverPhone),
		fmt.Sprintf("Price        : %s", price),
		fmt.Sprintf("Booked at    : %s", conf.Booking.BookedAt.Format("2006-01-02 15:04")),
	}
	for _, line := range lines {
		pdf.Cell(0, 8, line)
		pdf.Ln(8)
	}

	qr, err := qrcode.Encode(conf.Booking.ID, qrcode.Medium, 256)
	if err != nil {
		return nil, err
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("booking-qr", opts, bytes.NewReader(qr))
	pdf.ImageOptions("booking-qr", 150, 20, 40, 40, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func safe(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
