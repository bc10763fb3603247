package cli

import "testing"

func TestLogConfigScan(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want logConfig
	}{
		{
			name: "assigned",
			args: []string{"run", "--log-level=debug", "--log-format=json"},
			want: logConfig{Level: "debug", Format: "json"},
		},
		{
			name: "separate values",
			args: []string{"--log-level", "warn", "check", "--log-format", "text"},
			want: logConfig{Level: "warn", Format: "text"},
		},
		{
			name: "booleans",
			args: []string{"--log-caller", "--no-log-pretty"},
			want: logConfig{Caller: true, Pretty: false},
		},
		{
			name: "assigned booleans",
			args: []string{"--log-pretty=true", "--no-log-caller=false"},
			want: logConfig{Caller: true, Pretty: true},
		},
		{
			name: "stops at double dash",
			args: []string{"--", "--log-level=debug"},
			want: logConfig{},
		},
		{
			name: "value missing",
			args: []string{"--log-level", "--log-caller"},
			want: logConfig{Caller: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got logConfig

			got.scan(tt.args)

			if got != tt.want {
				t.Errorf("scan(%q) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}
