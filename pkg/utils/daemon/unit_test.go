package daemon

import (
	"strings"
	"testing"
)

func TestUnit(t *testing.T) {
	tests := []struct {
		name string
		o    Options
		want string
	}{
		{
			name: "root only",
			o:    Options{Executable: "/usr/local/bin/bno055", ConfigPath: "/etc/bno055.yaml", SocketPath: "/var/run/bno055.sock"},
			want: "ExecStart=/usr/local/bin/bno055 daemon --config /etc/bno055.yaml --daemon-socket /var/run/bno055.sock\n",
		},
		{
			name: "non-root access",
			o:    Options{Executable: "/opt/bno055", ConfigPath: "/etc/b.json", SocketPath: "/run/b.sock", AllowNonRootAccess: true},
			want: "ExecStart=/opt/bno055 daemon --config /etc/b.json --daemon-socket /run/b.sock --always-allow-non-root-access\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := Unit(tt.o)
			if !strings.Contains(u, tt.want) {
				t.Errorf("Unit() =\n%s\nwant line %q", u, tt.want)
			}
			if !strings.Contains(u, "WantedBy=multi-user.target") {
				t.Errorf("Unit() has no [Install] target")
			}
		})
	}
}
