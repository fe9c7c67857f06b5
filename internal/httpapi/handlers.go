package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Skufu/vitalcalc/internal/cache"
	"github.com/Skufu/vitalcalc/internal/calc"
	"github.com/Skufu/vitalcalc/internal/medication"
)

func (s *server) listCalculators(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"calculators": s.Registry.List()})
}

func (s *server) evalCalculator(c *gin.Context) {
	name := c.Param("name")
	body, err := c.GetRawData()
	if err != nil {
		invalidPayload(c, err)
		return
	}

	var compact []byte
	if s.Cache != nil {
		var buf bytes.Buffer
		if json.Compact(&buf, body) == nil {
			compact = buf.Bytes()
			key := cache.Key(name, s.Registry.Version(), compact)
			if hit, ok := s.Cache.Get(c.Request.Context(), key); ok {
				c.Header("X-Cache", "HIT")
				c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(hit))
				return
			}
		}
	}

	result, version, err := s.Registry.Run(name, body)
	if err != nil {
		writeError(c, err)
		return
	}
	out, err := json.Marshal(result)
	if err != nil {
		writeError(c, err)
		return
	}
	if compact != nil {
		// Keyed by the catalog the result came from, which may be newer than
		// the one the lookup used.
		key := cache.Key(name, version, compact)
		if err := s.Cache.Set(c.Request.Context(), key, string(out), s.CacheTTL); err != nil {
			s.Logger.Warn("cache write failed", zap.String("calculator", name), zap.Error(err))
		}
		c.Header("X-Cache", "MISS")
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", out)
}

func (s *server) catalogTable(c *gin.Context) {
	cat := s.Catalog.Get()
	var table any
	switch c.Param("table") {
	case "factors":
		table = cat.Factors
	case "labs":
		table = cat.Labs
	case "symptoms":
		table = cat.Symptoms
	case "conditions":
		table = cat.Conditions
	case "exercises":
		table = cat.Exercises
	case "beverages":
		table = cat.Beverages
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "unknown table " + c.Param("table")})
		return
	}
	c.Header("ETag", strconv.Quote(cat.Digest()))
	c.JSON(http.StatusOK, gin.H{c.Param("table"): table})
}

func (s *server) listMedications(c *gin.Context) {
	meds, err := s.Tracker.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if meds == nil {
		meds = []medication.Medication{}
	}
	c.JSON(http.StatusOK, gin.H{"medications": meds})
}

func (s *server) addMedication(c *gin.Context) {
	var payload medication.Medication
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	m, err := s.Tracker.Add(c.Request.Context(), payload)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (s *server) removeMedication(c *gin.Context) {
	if err := s.Tracker.Remove(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *server) recordDose(c *gin.Context) {
	var payload medication.RecordInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	entry, err := s.Tracker.Record(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (s *server) schedule(c *gin.Context) {
	day := s.Now()
	if raw := c.Query("date"); raw != "" {
		d, err := time.Parse(medication.DateLayout, raw)
		if err != nil {
			writeError(c, calc.Invalid("date", "must be YYYY-MM-DD"))
			return
		}
		day = d
	}
	doses, err := s.Tracker.Schedule(c.Request.Context(), day)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": day.Format(medication.DateLayout), "doses": doses})
}

func (s *server) adherence(c *gin.Context) {
	days := 7
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 365 {
			writeError(c, calc.Invalid("days", "must be a whole number from 1 to 365"))
			return
		}
		days = n
	}
	to := s.Now()
	from := to.AddDate(0, 0, -(days - 1))
	rep, err := s.Tracker.Adherence(c.Request.Context(), from, to)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}
